package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
)

var (
	// ErrAlreadyExists is returned by Create when the (follower, following) pair is already stored
	ErrAlreadyExists = errors.New("follow edge already exists")
	// ErrSelfReference is returned by Create when follower and following are the same user
	ErrSelfReference = errors.New("follow edge cannot reference the same user twice")
	// ErrBackendUnavailable wraps every storage-level failure
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	// ErrUserNotFound is returned by a UserDirectory that has no record for the id
	ErrUserNotFound = errors.New("user not found")
)

// EdgeRepository stores the follow relation. Every backend gives the same guarantees:
// one edge per ordered pair, no self edges, and list results in creation order.
type EdgeRepository interface {
	Create(ctx context.Context, followerID, followingID string) (*models.FollowEdge, error)
	// Delete reports whether an edge was removed. A missing edge is not an error.
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowing(ctx context.Context, userID string) ([]models.FollowEdge, error)
	ListFollowers(ctx context.Context, userID string) ([]models.FollowEdge, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
}

// storageError wraps a driver error into ErrBackendUnavailable. Context errors are
// returned as they are so callers can tell cancellation from an outage.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrBackendUnavailable, err)
}
