package service

import (
	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

func toView(u *domain.User) *ports.UserView {
	return &ports.UserView{
		ID:         u.ID,
		Username:   u.Username,
		Mobile:     u.Mobile,
		Email:      u.Email,
		State:      u.State,
		RoleName:   u.RoleName(),
		CreateTime: u.CreateTime,
	}
}

func toInfo(u *domain.User) *ports.UserInfo {
	info := &ports.UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		Mobile:      u.Mobile,
		Email:       u.Email,
		Permissions: []string{},
		CreateTime:  u.CreateTime,
	}
	if u.Role != nil {
		info.Role = &ports.RoleSummary{ID: u.Role.ID, Name: u.Role.Name}
		for _, p := range u.Role.Permissions {
			info.Permissions = append(info.Permissions, string(p))
		}
	}
	return info
}
