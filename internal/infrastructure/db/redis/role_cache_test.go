package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/user-admin/internal/core/domain"
)

// fakeRedis implements the handful of commands RoleCache issues. Any other
// command panics through the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if f.getErr != nil {
		cmd.SetErr(f.getErr)
		return cmd
	}
	v, ok := f.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

type countingRoleRepo struct {
	roles map[int64]*domain.Role
	calls int
}

func (r *countingRoleRepo) FindByID(_ context.Context, id int64) (*domain.Role, error) {
	r.calls++
	role, ok := r.roles[id]
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	clone := *role
	return &clone, nil
}

func newRepo() *countingRoleRepo {
	return &countingRoleRepo{roles: map[int64]*domain.Role{
		2: {ID: 2, Name: "admin", Permissions: []domain.Permission{domain.PermAddUser, domain.PermDeleteUser}},
	}}
}

func TestRoleCache_ReadThrough(t *testing.T) {
	repo := newRepo()
	rdb := newFakeRedis()
	cache := NewRoleCache(repo, rdb, time.Minute, zerolog.Nop())

	first, err := cache.FindByID(context.Background(), 2)
	require.NoError(t, err)
	second, err := cache.FindByID(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first, second)
	assert.True(t, second.Grants(domain.PermDeleteUser))
	assert.Equal(t, time.Minute, rdb.ttls["role:2"])
}

func TestRoleCache_MissingRoleNotCached(t *testing.T) {
	repo := newRepo()
	rdb := newFakeRedis()
	cache := NewRoleCache(repo, rdb, 0, zerolog.Nop())

	_, err := cache.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	assert.Empty(t, rdb.data)
}

func TestRoleCache_RedisDownFallsBack(t *testing.T) {
	repo := newRepo()
	rdb := newFakeRedis()
	rdb.getErr = errors.New("dial tcp: connection refused")
	cache := NewRoleCache(repo, rdb, time.Minute, zerolog.Nop())

	role, err := cache.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "admin", role.Name)
	assert.Equal(t, 1, repo.calls)
}

func TestRoleCache_CorruptEntryRefetched(t *testing.T) {
	repo := newRepo()
	rdb := newFakeRedis()
	rdb.data["role:2"] = "{not json"
	cache := NewRoleCache(repo, rdb, time.Minute, zerolog.Nop())

	role, err := cache.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "admin", role.Name)
	assert.Equal(t, 1, repo.calls)
	assert.NotEqual(t, "{not json", rdb.data["role:2"])
}

func TestRoleCache_DefaultTTL(t *testing.T) {
	cache := NewRoleCache(newRepo(), newFakeRedis(), -1, zerolog.Nop())
	assert.Equal(t, defaultRoleTTL, cache.ttl)
}
