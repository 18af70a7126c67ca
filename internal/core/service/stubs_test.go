package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID   map[int64]*domain.User
	nextID int64
	calls  int
	err    error // if set, every call returns this error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[int64]*domain.User)}
	for _, u := range users {
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
		r.byID[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Role = nil
	return &clone
}

func (r *stubUserRepo) sorted() []*domain.User {
	out := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubUserRepo) FindPage(_ context.Context, page, size int) ([]*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	all := r.sorted()
	skip := page * size
	if skip > len(all) {
		return []*domain.User{}, nil
	}
	end := skip + size
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	r.calls++
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.byID)), nil
}

func (r *stubUserRepo) FindByUsernameLike(_ context.Context, substr string) ([]*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.User
	for _, u := range r.sorted() {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(substr)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.byID {
		if u.Username == user.Username && u.ID != user.ID {
			return nil, domain.ErrDuplicateUsername
		}
	}
	clone := cloneUser(user)
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	}
	r.byID[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id int64) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) update(id int64, fn func(u *domain.User)) (*domain.User, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	fn(u)
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateState(_ context.Context, id int64, state bool) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.State = state })
}

func (r *stubUserRepo) UpdateInformation(_ context.Context, id int64, mobile, email string) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.Mobile, u.Email = mobile, email })
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id, roleID int64) (*domain.User, error) {
	return r.update(id, func(u *domain.User) { u.RoleID = roleID })
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	_, err := r.update(id, func(u *domain.User) { u.PasswordHash = hash })
	return err
}

type stubRoleRepo struct {
	roles map[int64]*domain.Role
	calls int
}

func newStubRoleRepo(roles ...*domain.Role) *stubRoleRepo {
	r := &stubRoleRepo{roles: make(map[int64]*domain.Role)}
	for _, role := range roles {
		r.roles[role.ID] = role
	}
	return r
}

func (r *stubRoleRepo) FindByID(_ context.Context, id int64) (*domain.Role, error) {
	r.calls++
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	clone := *role
	return &clone, nil
}

// plainHasher salts with a counter so repeated hashes differ, like bcrypt.
type plainHasher struct {
	n int
}

func (h *plainHasher) Hash(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("empty password")
	}
	h.n++
	return strings.Repeat("$", h.n) + "hashed:" + raw, nil
}

func (h *plainHasher) Verify(raw, hash string) bool {
	return strings.TrimLeft(hash, "$") == "hashed:"+raw
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var (
	defaultRole = &domain.Role{ID: domain.DefaultRoleID, Name: "member"}
	adminRole   = &domain.Role{
		ID:   2,
		Name: "admin",
		Permissions: []domain.Permission{
			domain.PermViewUserList,
			domain.PermAddUser,
			domain.PermSetUserState,
			domain.PermViewUserDetail,
			domain.PermDeleteUser,
			domain.PermAssignUserRole,
		},
	}
)

func adminSession() *domain.Session {
	return &domain.Session{User: &domain.User{ID: 100, Username: "root", State: true, RoleID: adminRole.ID, Role: adminRole}}
}

func memberSession(u *domain.User) *domain.Session {
	clone := *u
	clone.Role = defaultRole
	return &domain.Session{User: &clone}
}
