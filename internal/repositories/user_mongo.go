package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserDirectory for a MongoDB users collection
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a user document keyed by the user id
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, user)
	return storageError("create user", err)
}

// EnsureUser upserts with $setOnInsert, so an existing document is left untouched
func (r *MongoUserRepository) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$setOnInsert": bson.M{
			"username":   user.Username,
			"full_name":  user.FullName,
			"email":      user.Email,
			"avatar_url": user.AvatarURL,
			"created_at": user.CreatedAt,
			"updated_at": user.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, storageError("ensure user", err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoUserRepository) Summarize(ctx context.Context, userID string) (*models.UserSummary, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return nil, storageError("get user", err)
	}
	return user.ToSummary(), nil
}
