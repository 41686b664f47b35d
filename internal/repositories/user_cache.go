package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedUserDirectory keeps recently resolved summaries for a bounded time.
// Only successful lookups are cached.
type CachedUserDirectory struct {
	next  UserDirectory
	cache *expirable.LRU[string, models.UserSummary]
}

// NewCachedUserDirectory wraps next with an LRU of the given size and entry ttl
func NewCachedUserDirectory(next UserDirectory, size int, ttl time.Duration) *CachedUserDirectory {
	return &CachedUserDirectory{
		next:  next,
		cache: expirable.NewLRU[string, models.UserSummary](size, nil, ttl),
	}
}

func (d *CachedUserDirectory) Summarize(ctx context.Context, userID string) (*models.UserSummary, error) {
	if summary, ok := d.cache.Get(userID); ok {
		return &summary, nil
	}
	summary, err := d.next.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.cache.Add(userID, *summary)
	return summary, nil
}
