package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
)

// MemoryUserRepository implements UserDirectory over an in-process map
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

// CreateUser stores a copy of the user, replacing any record with the same id
func (r *MemoryUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) EnsureUser(ctx context.Context, user *models.User) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return false, nil
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return true, nil
}

func (r *MemoryUserRepository) Summarize(ctx context.Context, userID string) (*models.UserSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	user, ok := r.users[userID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return user.ToSummary(), nil
}
