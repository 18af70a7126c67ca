package ports

import (
	"context"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// SessionResolver turns a verified token subject into a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, userID int64) (*domain.Session, error)
}
