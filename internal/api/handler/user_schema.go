package handler

import "time"

// --- Requests ---

type listUsersRequest struct {
	Query    string `query:"query"`
	PageNum  int    `query:"pageNum"  validate:"min=1"`
	PageSize int    `query:"pageSize" validate:"min=1,max=1000"`
}

type roleRef struct {
	ID int64 `json:"id"`
}

// createUserRequest accepts state and role for compatibility with the admin
// console; both are overridden server side.
type createUserRequest struct {
	Username string   `json:"username" validate:"required,max=64"`
	Password string   `json:"password" validate:"required,maxbytes=72"`
	Mobile   string   `json:"mobile"   validate:"max=32"`
	Email    string   `json:"email"    validate:"omitempty,email"`
	State    bool     `json:"state"`
	Role     *roleRef `json:"role"`
}

type updateContactRequest struct {
	Mobile string `json:"mobile" validate:"max=32"`
	Email  string `json:"email"  validate:"omitempty,email"`
}

type updateRoleRequest struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type passwordRequest struct {
	Password string `json:"password" form:"password" query:"password" validate:"required,maxbytes=72"`
}

// --- Responses ---

type userResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Mobile     string    `json:"mobile"`
	Email      string    `json:"email"`
	State      bool      `json:"state"`
	RoleName   string    `json:"roleName"`
	CreateTime time.Time `json:"createTime"`
}

type userListResponse struct {
	Total   int64          `json:"total"`
	PageNum int            `json:"pageNum"`
	Users   []userResponse `json:"users"`
}

type roleResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type userInfoResponse struct {
	ID          int64         `json:"id"`
	Username    string        `json:"username"`
	Mobile      string        `json:"mobile"`
	Email       string        `json:"email"`
	Role        *roleResponse `json:"role"`
	Permissions []string      `json:"permissions"`
	CreateTime  time.Time     `json:"createTime"`
}
