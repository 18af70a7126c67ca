package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// errDefaultRoleMissing marks a deployment fault. It never wraps
// domain.ErrInvalidRole, so callers see a server error.
var errDefaultRoleMissing = errors.New("default role missing")

// UserService implements ports.UserService on top of the user and role stores.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		roles:  roles,
		hasher: hasher,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListUsers pages through all users for a blank query and switches to an
// unpaged username search otherwise.
func (s *UserService) ListUsers(ctx context.Context, sess *domain.Session, input ports.ListUsersInput) (*ports.UserList, error) {
	if err := requirePermission(sess, domain.PermViewUserList); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Query) == "" {
		page := input.PageNum - 1
		if page < 0 {
			page = 0
		}
		users, err := s.users.FindPage(ctx, page, input.PageSize)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		total, err := s.users.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count users: %w", err)
		}
		return &ports.UserList{Total: total, PageNum: input.PageNum, Users: s.views(ctx, users)}, nil
	}

	users, err := s.users.FindByUsernameLike(ctx, input.Query)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	// Search mode reports the size of this response as the total.
	return &ports.UserList{Total: int64(len(users)), PageNum: input.PageNum, Users: s.views(ctx, users)}, nil
}

func (s *UserService) GetUser(ctx context.Context, sess *domain.Session, id int64) (*ports.UserView, error) {
	if err := requirePermission(sess, domain.PermViewUserDetail); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, user), nil
}

// CreateUser stores a new enabled account on the default role. Caller
// supplied state and role are ignored.
func (s *UserService) CreateUser(ctx context.Context, sess *domain.Session, input ports.CreateUserInput) (*ports.UserView, error) {
	if err := requirePermission(sess, domain.PermAddUser); err != nil {
		return nil, err
	}

	_, err := s.users.FindByUsername(ctx, input.Username)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateUsername
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("check username: %w", err)
	}

	role, err := s.roles.FindByID(ctx, domain.DefaultRoleID)
	if err != nil {
		return nil, fmt.Errorf("%w: role %d: %v", errDefaultRoleMissing, domain.DefaultRoleID, err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: hash,
		Mobile:       input.Mobile,
		Email:        input.Email,
		State:        true,
		RoleID:       role.ID,
		CreateTime:   s.now(),
	}

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateUsername) {
			s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		}
		return nil, err
	}
	saved.Role = role

	s.logger.Info().
		Int64("user_id", saved.ID).
		Str("username", saved.Username).
		Int64("created_by", sess.User.ID).
		Msg("user created")

	return toView(saved), nil
}

// DeleteUser removes the account without checking it exists first.
func (s *UserService) DeleteUser(ctx context.Context, sess *domain.Session, id int64) error {
	if err := requirePermission(sess, domain.PermDeleteUser); err != nil {
		return err
	}

	if err := s.users.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	s.logger.Info().Int64("user_id", id).Int64("deleted_by", sess.User.ID).Msg("user deleted")
	return nil
}

func (s *UserService) SetState(ctx context.Context, sess *domain.Session, id int64, state bool) (*ports.UserView, error) {
	if err := requirePermission(sess, domain.PermSetUserState); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateState(ctx, id, state)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Bool("state", state).Int64("updated_by", sess.User.ID).Msg("user state changed")
	return s.view(ctx, user), nil
}

// UpdateContact rewrites mobile and email only.
func (s *UserService) UpdateContact(ctx context.Context, sess *domain.Session, id int64, mobile, email string) (*ports.UserView, error) {
	if err := requirePermission(sess, domain.PermViewUserDetail); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateInformation(ctx, id, mobile, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", id).Int64("updated_by", sess.User.ID).Msg("user contact updated")
	return s.view(ctx, user), nil
}

func (s *UserService) UpdateRole(ctx context.Context, sess *domain.Session, id, roleID int64) (*ports.UserView, error) {
	if err := requirePermission(sess, domain.PermAssignUserRole); err != nil {
		return nil, err
	}

	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateRole(ctx, id, role.ID)
	if err != nil {
		return nil, err
	}
	user.Role = role

	s.logger.Info().Int64("user_id", id).Int64("role_id", roleID).Int64("updated_by", sess.User.ID).Msg("user role changed")
	return toView(user), nil
}

// CurrentUser projects the session user as-is.
func (s *UserService) CurrentUser(_ context.Context, sess *domain.Session) (*ports.UserInfo, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return toInfo(sess.User), nil
}

// CheckPassword verifies password against the stored hash of the session user.
func (s *UserService) CheckPassword(ctx context.Context, sess *domain.Session, password string) error {
	if err := requireSession(sess); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, sess.User.ID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return domain.ErrWrongPassword
	}
	return nil
}

// UpdatePassword stores a new hash for the session user and nothing else.
func (s *UserService) UpdatePassword(ctx context.Context, sess *domain.Session, password string) error {
	if err := requireSession(sess); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, sess.User.ID, hash); err != nil {
		return err
	}
	sess.User.PasswordHash = hash

	s.logger.Info().Int64("user_id", sess.User.ID).Msg("password updated")
	return nil
}

// view hydrates the role of a single user and projects it.
func (s *UserService) view(ctx context.Context, user *domain.User) *ports.UserView {
	user.Role = s.lookupRole(ctx, user.RoleID, nil)
	return toView(user)
}

// views projects a result set, resolving each distinct role once.
func (s *UserService) views(ctx context.Context, users []*domain.User) []ports.UserView {
	seen := make(map[int64]*domain.Role)
	out := make([]ports.UserView, 0, len(users))
	for _, u := range users {
		u.Role = s.lookupRole(ctx, u.RoleID, seen)
		out = append(out, *toView(u))
	}
	return out
}

// lookupRole returns nil for a dangling role reference; the view then
// carries an empty role name.
func (s *UserService) lookupRole(ctx context.Context, id int64, seen map[int64]*domain.Role) *domain.Role {
	if role, ok := seen[id]; ok {
		return role
	}
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidRole) {
			s.logger.Warn().Err(err).Int64("role_id", id).Msg("role lookup failed")
		}
		role = nil
	}
	if seen != nil {
		seen[id] = role
	}
	return role
}
