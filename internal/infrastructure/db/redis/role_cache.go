package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
)

const defaultRoleTTL = 5 * time.Minute

// RoleCache is a read-through cache in front of a ports.RoleRepository.
// Key format: role:<id>
//
// Redis failures never fail a lookup; the cache is bypassed and the
// underlying repository answers.
type RoleCache struct {
	next   ports.RoleRepository
	client redis.Cmdable
	ttl    time.Duration
	log    zerolog.Logger
}

// NewRoleCache wraps next. A non-positive ttl uses defaultRoleTTL.
func NewRoleCache(next ports.RoleRepository, client redis.Cmdable, ttl time.Duration, log zerolog.Logger) *RoleCache {
	if ttl <= 0 {
		ttl = defaultRoleTTL
	}
	return &RoleCache{next: next, client: client, ttl: ttl, log: log}
}

type cachedRole struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func (c *RoleCache) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	key := c.key(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if role, decodeErr := decodeRole(raw); decodeErr == nil {
			return role, nil
		}
		c.log.Warn().Str("key", key).Msg("discarding undecodable cached role")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("role cache read failed")
	}

	role, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, encodeErr := encodeRole(role); encodeErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.log.Warn().Err(setErr).Str("key", key).Msg("role cache write failed")
		}
	}
	return role, nil
}

func (c *RoleCache) key(id int64) string {
	return fmt.Sprintf("role:%d", id)
}

func encodeRole(r *domain.Role) ([]byte, error) {
	perms := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, string(p))
	}
	return json.Marshal(cachedRole{ID: r.ID, Name: r.Name, Permissions: perms})
}

func decodeRole(raw []byte) (*domain.Role, error) {
	var cr cachedRole
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, err
	}
	perms := make([]domain.Permission, 0, len(cr.Permissions))
	for _, p := range cr.Permissions {
		perms = append(perms, domain.Permission(p))
	}
	return &domain.Role{ID: cr.ID, Name: cr.Name, Permissions: perms}, nil
}
