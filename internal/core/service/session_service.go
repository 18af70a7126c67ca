package service

import (
	"context"
	"errors"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// SessionService implements ports.SessionResolver.
type SessionService struct {
	users ports.UserRepository
	roles ports.RoleRepository
}

func NewSessionService(users ports.UserRepository, roles ports.RoleRepository) *SessionService {
	return &SessionService{users: users, roles: roles}
}

// Resolve loads the token subject with its role. Unknown and disabled
// accounts cannot hold a session.
func (s *SessionService) Resolve(ctx context.Context, userID int64) (*domain.Session, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if !user.State {
		return nil, domain.ErrAccountDisabled
	}

	role, err := s.roles.FindByID(ctx, user.RoleID)
	switch {
	case err == nil:
		user.Role = role
	case !errors.Is(err, domain.ErrInvalidRole):
		return nil, err
	}

	return &domain.Session{User: user}, nil
}
