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

// PostRepository is the read side of the posts subsystem the feed depends on
type PostRepository interface {
	// PostsByAuthors returns every post by the given authors, newest first,
	// with ties broken by post id descending.
	PostsByAuthors(ctx context.Context, authorIDs []string) ([]models.Post, error)
}

// PostWriter publishes posts. It fills in the post's id and timestamps.
type PostWriter interface {
	CreatePost(ctx context.Context, post *models.Post) error
}

// mongoPost is the stored document shape of a post
type mongoPost struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"user_id"`
	Content       string             `bson:"content"`
	ImageURLs     []string           `bson:"image_urls,omitempty"`
	VideoURLs     []string           `bson:"video_urls,omitempty"`
	LikesCount    int                `bson:"likes_count"`
	CommentsCount int                `bson:"comments_count"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *mongoPost) toModel() models.Post {
	return models.Post{
		ID:            d.ID.Hex(),
		AuthorID:      d.UserID,
		Content:       d.Content,
		ImageURLs:     d.ImageURLs,
		VideoURLs:     d.VideoURLs,
		LikesCount:    d.LikesCount,
		CommentsCount: d.CommentsCount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// EnsureIndexes creates the author timeline index used by PostsByAuthors
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("user_created"),
	})
	return storageError("ensure post indexes", err)
}

// CreatePost creates a new post in MongoDB. A zero CreatedAt is set to now.
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	post.UpdatedAt = post.CreatedAt
	doc := mongoPost{
		ID:            primitive.NewObjectID(),
		UserID:        post.AuthorID,
		Content:       post.Content,
		ImageURLs:     post.ImageURLs,
		VideoURLs:     post.VideoURLs,
		LikesCount:    post.LikesCount,
		CommentsCount: post.CommentsCount,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return storageError("create post", err)
	}
	post.ID = doc.ID.Hex()
	return nil
}

func (r *MongoPostRepository) PostsByAuthors(ctx context.Context, authorIDs []string) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": bson.M{"$in": authorIDs}}, findOptions)
	if err != nil {
		return nil, storageError("find posts", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoPost
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, storageError("find posts", err)
	}
	posts := make([]models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}
