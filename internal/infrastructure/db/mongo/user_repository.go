package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-admin/internal/core/domain"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col *mongo.Collection
	ids *sequence
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col: db.Collection(collectionUsers),
		ids: newSequence(db, collectionUsers),
	}
}

type userDocument struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password"`
	Mobile       string    `bson:"mobile"`
	Email        string    `bson:"email"`
	State        bool      `bson:"state"`
	RoleID       int64     `bson:"role_id"`
	CreateTime   time.Time `bson:"create_time"`
}

func toUserDocument(u *domain.User) userDocument {
	return userDocument{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Mobile:       u.Mobile,
		Email:        u.Email,
		State:        u.State,
		RoleID:       u.RoleID,
		CreateTime:   u.CreateTime.UTC(),
	}
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		Mobile:       d.Mobile,
		Email:        d.Email,
		State:        d.State,
		RoleID:       d.RoleID,
		CreateTime:   d.CreateTime.UTC(),
	}
}

// usernameLikeFilter matches usernames containing substr, case-insensitively.
// substr is matched literally.
func usernameLikeFilter(substr string) bson.M {
	return bson.M{"username": primitive.Regex{Pattern: regexp.QuoteMeta(substr), Options: "i"}}
}

var byIDAscending = bson.D{{Key: "_id", Value: 1}}

// FindPage returns the zero-based page of users ordered by id.
func (r *UserRepository) FindPage(ctx context.Context, page, size int) ([]*domain.User, error) {
	if size <= 0 {
		return []*domain.User{}, nil
	}
	if page < 0 {
		page = 0
	}
	opts := options.Find().
		SetSort(byIDAscending).
		SetSkip(int64(page) * int64(size)).
		SetLimit(int64(size))
	return r.find(ctx, bson.M{}, opts)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *UserRepository) FindByUsernameLike(ctx context.Context, substr string) ([]*domain.User, error) {
	return r.find(ctx, usernameLikeFilter(substr), options.Find().SetSort(byIDAscending))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// Save inserts a new user with the next sequence id, or replaces an existing one.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toUserDocument(user)
	if doc.ID == 0 {
		id, err := r.ids.next(ctx)
		if err != nil {
			return nil, err
		}
		doc.ID = id
		if _, err := r.col.InsertOne(ctx, doc); err != nil {
			return nil, mapWriteError("insert user", err)
		}
		return doc.toDomain(), nil
	}

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, mapWriteError("replace user", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateState(ctx context.Context, id int64, state bool) (*domain.User, error) {
	return r.set(ctx, id, bson.M{"state": state})
}

func (r *UserRepository) UpdateInformation(ctx context.Context, id int64, mobile, email string) (*domain.User, error) {
	return r.set(ctx, id, bson.M{"mobile": mobile, "email": email})
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, roleID int64) (*domain.User, error) {
	return r.set(ctx, id, bson.M{"role_id": roleID})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": passwordHash}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique username index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// set applies fields atomically and returns the updated document.
func (r *UserRepository) set(ctx context.Context, id int64, fields bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

func mapWriteError(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateUsername
	}
	return fmt.Errorf("%s: %w", op, err)
}
