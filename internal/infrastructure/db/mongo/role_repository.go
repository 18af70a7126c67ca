package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const (
	collectionRoles = "roles"
	defaultRoleName = "member"
)

// RoleRepository implements ports.RoleRepository on the roles collection.
type RoleRepository struct {
	col *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{col: db.Collection(collectionRoles)}
}

type roleDocument struct {
	ID          int64    `bson:"_id"`
	Name        string   `bson:"name"`
	Permissions []string `bson:"permissions"`
}

func (d roleDocument) toDomain() *domain.Role {
	perms := make([]domain.Permission, 0, len(d.Permissions))
	for _, p := range d.Permissions {
		perms = append(perms, domain.Permission(p))
	}
	return &domain.Role{ID: d.ID, Name: d.Name, Permissions: perms}
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvalidRole
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureDefaultRole inserts the default role without permissions when it is
// missing. An existing default role is left untouched.
func (r *RoleRepository) EnsureDefaultRole(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": domain.DefaultRoleID},
		bson.M{"$setOnInsert": bson.M{"name": defaultRoleName, "permissions": bson.A{}}},
		options.Update().SetUpsert(true),
	)
	return err
}
