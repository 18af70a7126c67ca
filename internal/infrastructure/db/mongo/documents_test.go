package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/user-admin/internal/core/domain"
)

func TestUserDocument_RoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("CST", 8*3600))
	u := &domain.User{
		ID:           5,
		Username:     "alice",
		PasswordHash: "$2a$hash",
		Mobile:       "13800000000",
		Email:        "alice@example.com",
		State:        true,
		RoleID:       2,
		Role:         &domain.Role{ID: 2, Name: "admin"},
		CreateTime:   created,
	}

	got := toUserDocument(u).toDomain()

	assert.Nil(t, got.Role, "role is not persisted, only its id")
	assert.Equal(t, time.UTC, got.CreateTime.Location())
	assert.True(t, created.Equal(got.CreateTime))
	got.CreateTime, got.Role = u.CreateTime, u.Role
	assert.Equal(t, u, got)
}

func TestUsernameLikeFilter_EscapesMetacharacters(t *testing.T) {
	f := usernameLikeFilter("a.b*")

	re, ok := f["username"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `a\.b\*`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestRoleDocument_ToDomain(t *testing.T) {
	role := roleDocument{ID: 3, Name: "auditor", Permissions: []string{"view-user-list"}}.toDomain()

	assert.Equal(t, int64(3), role.ID)
	assert.True(t, role.Grants(domain.PermViewUserList))
	assert.False(t, role.Grants(domain.PermDeleteUser))
}

func TestRoleDocument_NilPermissions(t *testing.T) {
	role := roleDocument{ID: domain.DefaultRoleID, Name: defaultRoleName}.toDomain()

	assert.NotNil(t, role.Permissions)
	assert.Empty(t, role.Permissions)
}
