package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrInvalidRole       = errors.New("role does not exist")
	ErrWrongPassword     = errors.New("current password is incorrect")
	ErrForbidden         = errors.New("access forbidden")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrAccountDisabled   = errors.New("account is disabled")
	ErrPasswordTooLong   = errors.New("password must be at most 72 bytes")
)
