package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// RoleRepository resolves roles. A missing role yields domain.ErrInvalidRole.
type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Role, error)
}
