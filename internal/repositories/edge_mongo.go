package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoFollow is the stored document shape of a follow edge
type mongoFollow struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FollowerID  string             `bson:"follower_id"`
	FollowingID string             `bson:"following_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *mongoFollow) toModel() models.FollowEdge {
	return models.FollowEdge{
		ID:          d.ID.Hex(),
		FollowerID:  d.FollowerID,
		FollowingID: d.FollowingID,
		CreatedAt:   d.CreatedAt,
	}
}

// MongoFollowRepository implements EdgeRepository for MongoDB.
// Uniqueness comes from the follower_following unique compound index.
type MongoFollowRepository struct {
	collection *mongo.Collection
}

// NewMongoFollowRepository creates a new MongoFollowRepository
func NewMongoFollowRepository(db *mongo.Database) *MongoFollowRepository {
	return &MongoFollowRepository{collection: db.Collection("follows")}
}

// EnsureIndexes creates the unique pair index and the reverse lookup index
func (r *MongoFollowRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "follower_id", Value: 1}, {Key: "following_id", Value: 1}},
			Options: options.Index().SetName("follower_following").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "following_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("following_created"),
		},
	})
	return storageError("ensure follow indexes", err)
}

func (r *MongoFollowRepository) Create(ctx context.Context, followerID, followingID string) (*models.FollowEdge, error) {
	if followerID == followingID {
		return nil, ErrSelfReference
	}

	doc := mongoFollow{
		ID:          primitive.NewObjectID(),
		FollowerID:  followerID,
		FollowingID: followingID,
		// BSON dates carry millisecond precision
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, storageError("create follow", err)
	}
	edge := doc.toModel()
	return &edge, nil
}

func (r *MongoFollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"follower_id": followerID, "following_id": followingID})
	if err != nil {
		return false, storageError("delete follow", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoFollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx,
		bson.M{"follower_id": followerID, "following_id": followingID},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, storageError("check follow", err)
	}
	return count > 0, nil
}

func (r *MongoFollowRepository) ListFollowing(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	return r.list(ctx, bson.M{"follower_id": userID})
}

func (r *MongoFollowRepository) ListFollowers(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	return r.list(ctx, bson.M{"following_id": userID})
}

func (r *MongoFollowRepository) list(ctx context.Context, filter bson.M) ([]models.FollowEdge, error) {
	// ObjectIDs grow with insertion time, so _id breaks created_at ties in creation order
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, storageError("list follows", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoFollow
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, storageError("list follows", err)
	}
	edges := make([]models.FollowEdge, 0, len(docs))
	for i := range docs {
		edges = append(edges, docs[i].toModel())
	}
	return edges, nil
}

func (r *MongoFollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"follower_id": userID})
	return count, storageError("count follows", err)
}

func (r *MongoFollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"following_id": userID})
	return count, storageError("count follows", err)
}
