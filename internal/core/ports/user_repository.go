package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Lookups of a missing user return domain.ErrUserNotFound. Returned users
// carry RoleID only; role hydration is the caller's concern.
type UserRepository interface {
	// FindPage returns the zero-based page of users ordered by id.
	FindPage(ctx context.Context, page, size int) ([]*domain.User, error)
	// Count returns the total number of stored users.
	Count(ctx context.Context) (int64, error)
	// FindByUsernameLike returns every user whose username contains substr.
	FindByUsernameLike(ctx context.Context, substr string) ([]*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Save inserts the user when ID is zero (assigning one) and replaces it otherwise.
	// A username collision yields domain.ErrDuplicateUsername.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	// DeleteByID removes the user; deleting a missing id is not an error.
	DeleteByID(ctx context.Context, id int64) error
	UpdateState(ctx context.Context, id int64, state bool) (*domain.User, error)
	UpdateInformation(ctx context.Context, id int64, mobile, email string) (*domain.User, error)
	UpdateRole(ctx context.Context, id, roleID int64) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
