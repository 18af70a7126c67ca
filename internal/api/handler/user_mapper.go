package handler

import (
	"github.com/99minutos/user-admin/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createUserRequest) ports.CreateUserInput {
	in := ports.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Mobile:   req.Mobile,
		Email:    req.Email,
		State:    req.State,
	}
	if req.Role != nil {
		in.RoleID = req.Role.ID
	}
	return in
}

// --- Service result → Response ---

func toUserResponse(v *ports.UserView) userResponse {
	return userResponse{
		ID:         v.ID,
		Username:   v.Username,
		Mobile:     v.Mobile,
		Email:      v.Email,
		State:      v.State,
		RoleName:   v.RoleName,
		CreateTime: v.CreateTime,
	}
}

func toUserListResponse(l *ports.UserList) userListResponse {
	users := make([]userResponse, 0, len(l.Users))
	for i := range l.Users {
		users = append(users, toUserResponse(&l.Users[i]))
	}
	return userListResponse{Total: l.Total, PageNum: l.PageNum, Users: users}
}

func toUserInfoResponse(info *ports.UserInfo) userInfoResponse {
	resp := userInfoResponse{
		ID:          info.ID,
		Username:    info.Username,
		Mobile:      info.Mobile,
		Email:       info.Email,
		Permissions: info.Permissions,
		CreateTime:  info.CreateTime,
	}
	if info.Role != nil {
		resp.Role = &roleResponse{ID: info.Role.ID, Name: info.Role.Name}
	}
	return resp
}
