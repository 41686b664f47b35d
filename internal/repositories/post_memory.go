package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/google/uuid"
)

// MemoryPostRepository implements PostRepository in process memory
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts []models.Post
}

// NewMemoryPostRepository creates an empty MemoryPostRepository
func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{}
}

// CreatePost stores a copy of the post. Missing ids and timestamps are filled in.
func (r *MemoryPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	post.UpdatedAt = post.CreatedAt

	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, *post)
	return nil
}

func (r *MemoryPostRepository) PostsByAuthors(ctx context.Context, authorIDs []string) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	authors := make(map[string]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = struct{}{}
	}

	r.mu.RLock()
	posts := []models.Post{}
	for _, p := range r.posts {
		if _, ok := authors[p.AuthorID]; ok {
			posts = append(posts, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts, nil
}
