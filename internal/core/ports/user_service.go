package ports

import (
	"context"
	"time"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// ListUsersInput carries the list endpoint parameters. PageNum is 1-based.
type ListUsersInput struct {
	Query    string
	PageNum  int
	PageSize int
}

// CreateUserInput carries a create request. State and RoleID are accepted
// for wire compatibility but always overridden.
type CreateUserInput struct {
	Username string
	Password string
	Mobile   string
	Email    string
	State    bool
	RoleID   int64
}

// UserView is the password-free projection returned to admin callers.
type UserView struct {
	ID         int64
	Username   string
	Mobile     string
	Email      string
	State      bool
	RoleName   string
	CreateTime time.Time
}

// UserList is the listing result. In search mode Total is the number of
// matches returned, not a global count.
type UserList struct {
	Total   int64
	PageNum int
	Users   []UserView
}

// RoleSummary identifies a role inside UserInfo.
type RoleSummary struct {
	ID   int64
	Name string
}

// UserInfo is the self-service view of the session user.
type UserInfo struct {
	ID          int64
	Username    string
	Mobile      string
	Email       string
	Role        *RoleSummary
	Permissions []string
	CreateTime  time.Time
}

// UserService defines the admin and self-service use cases on user accounts.
// Every call is authorized against the given session before touching a store.
type UserService interface {
	ListUsers(ctx context.Context, sess *domain.Session, input ListUsersInput) (*UserList, error)
	GetUser(ctx context.Context, sess *domain.Session, id int64) (*UserView, error)
	CreateUser(ctx context.Context, sess *domain.Session, input CreateUserInput) (*UserView, error)
	DeleteUser(ctx context.Context, sess *domain.Session, id int64) error
	SetState(ctx context.Context, sess *domain.Session, id int64, state bool) (*UserView, error)
	UpdateContact(ctx context.Context, sess *domain.Session, id int64, mobile, email string) (*UserView, error)
	UpdateRole(ctx context.Context, sess *domain.Session, id, roleID int64) (*UserView, error)

	CurrentUser(ctx context.Context, sess *domain.Session) (*UserInfo, error)
	CheckPassword(ctx context.Context, sess *domain.Session, password string) error
	UpdatePassword(ctx context.Context, sess *domain.Session, password string) error
}
