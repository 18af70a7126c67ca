package domain

// Permission is the name of a capability checked before an admin operation.
type Permission string

const (
	PermViewUserList   Permission = "view-user-list"
	PermAddUser        Permission = "add-user"
	PermSetUserState   Permission = "set-user-state"
	PermViewUserDetail Permission = "view-user-detail"
	PermDeleteUser     Permission = "delete-user"
	PermAssignUserRole Permission = "assign-user-role"
)
