package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type postWriter interface {
	CreatePost(ctx context.Context, post *models.Post) error
}

func runPostRepositoryContract(t *testing.T, repo PostRepository, writer postWriter) {
	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	b, c, d := "b-"+suffix, "c-"+suffix, "d-"+suffix
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	p1 := &models.Post{AuthorID: b, Content: "p1", CreatedAt: base.Add(1 * time.Second)}
	p2 := &models.Post{AuthorID: c, Content: "p2", CreatedAt: base.Add(2 * time.Second)}
	p3 := &models.Post{AuthorID: d, Content: "p3", CreatedAt: base.Add(3 * time.Second)}
	for _, p := range []*models.Post{p1, p2, p3} {
		require.NoError(t, writer.CreatePost(ctx, p))
		require.NotEmpty(t, p.ID)
	}

	posts, err := repo.PostsByAuthors(ctx, []string{b, c})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p2", posts[0].Content)
	assert.Equal(t, "p1", posts[1].Content)
	assert.Equal(t, c, posts[0].AuthorID)

	none, err := repo.PostsByAuthors(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryPostRepository_Contract(t *testing.T) {
	repo := NewMemoryPostRepository()
	runPostRepositoryContract(t, repo, repo)
}

func TestMemoryPostRepository_TiesBreakOnIDDescending(t *testing.T) {
	repo := NewMemoryPostRepository()
	ctx := context.Background()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"post-a", "post-c", "post-b"} {
		require.NoError(t, repo.CreatePost(ctx, &models.Post{ID: id, AuthorID: "u", CreatedAt: at}))
	}

	posts, err := repo.PostsByAuthors(ctx, []string{"u"})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"post-c", "post-b", "post-a"}, []string{posts[0].ID, posts[1].ID, posts[2].ID})
}
