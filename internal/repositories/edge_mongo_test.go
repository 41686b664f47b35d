package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// openTestMongo returns a throwaway database on TEST_MONGO_URI or skips the test
func openTestMongo(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("socialgraph_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestMongoFollowRepository_Contract(t *testing.T) {
	db := openTestMongo(t)
	repo := NewMongoFollowRepository(db)
	require.NoError(t, repo.EnsureIndexes(context.Background()))

	runEdgeRepositoryContract(t, func(t *testing.T) EdgeRepository { return repo })
}

func TestMongoUserRepository_Summarize(t *testing.T) {
	db := openTestMongo(t)
	repo := NewMongoUserRepository(db)
	runUserDirectoryContract(t, repo, repo)
}

func TestMongoPostRepository_PostsByAuthors(t *testing.T) {
	db := openTestMongo(t)
	repo := NewMongoPostRepository(db)
	require.NoError(t, repo.EnsureIndexes(context.Background()))
	runPostRepositoryContract(t, repo, repo)
}
