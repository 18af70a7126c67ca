package domain

import "time"

// DefaultRoleID is the role every newly created user is assigned.
const DefaultRoleID int64 = 1

// User models an account managed through the admin console.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Mobile       string    `json:"mobile"`
	Email        string    `json:"email"`
	State        bool      `json:"state"`
	RoleID       int64     `json:"role_id"`
	Role         *Role     `json:"role,omitempty"`
	CreateTime   time.Time `json:"create_time"`
}

// RoleName returns the name of the hydrated role, or "" when the role is unknown.
func (u *User) RoleName() string {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Name
}
