package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
)

type memoryEdge struct {
	edge models.FollowEdge
	seq  uint64
}

// MemoryFollowRepository implements EdgeRepository in process memory.
// One mutex guards every read and write; check-then-insert runs inside it.
type MemoryFollowRepository struct {
	mu        sync.RWMutex
	seq       uint64
	following map[string]map[string]*memoryEdge // follower -> following -> edge
	followers map[string]map[string]*memoryEdge // following -> follower -> edge
	now       func() time.Time
}

// NewMemoryFollowRepository creates an empty MemoryFollowRepository
func NewMemoryFollowRepository() *MemoryFollowRepository {
	return &MemoryFollowRepository{
		following: make(map[string]map[string]*memoryEdge),
		followers: make(map[string]map[string]*memoryEdge),
		now:       time.Now,
	}
}

func (r *MemoryFollowRepository) Create(ctx context.Context, followerID, followingID string) (*models.FollowEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if followerID == followingID {
		return nil, ErrSelfReference
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.following[followerID][followingID]; ok {
		return nil, ErrAlreadyExists
	}

	id, err := models.NewEdgeID()
	if err != nil {
		return nil, err
	}
	r.seq++
	e := &memoryEdge{
		edge: models.FollowEdge{
			ID:          id,
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   r.now().UTC(),
		},
		seq: r.seq,
	}
	if r.following[followerID] == nil {
		r.following[followerID] = make(map[string]*memoryEdge)
	}
	if r.followers[followingID] == nil {
		r.followers[followingID] = make(map[string]*memoryEdge)
	}
	r.following[followerID][followingID] = e
	r.followers[followingID][followerID] = e

	edge := e.edge
	return &edge, nil
}

func (r *MemoryFollowRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.following[followerID][followingID]; !ok {
		return false, nil
	}
	delete(r.following[followerID], followingID)
	if len(r.following[followerID]) == 0 {
		delete(r.following, followerID)
	}
	delete(r.followers[followingID], followerID)
	if len(r.followers[followingID]) == 0 {
		delete(r.followers, followingID)
	}
	return true, nil
}

func (r *MemoryFollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.following[followerID][followingID]
	return ok, nil
}

func (r *MemoryFollowRepository) ListFollowing(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	return r.list(ctx, r.following, userID)
}

func (r *MemoryFollowRepository) ListFollowers(ctx context.Context, userID string) ([]models.FollowEdge, error) {
	return r.list(ctx, r.followers, userID)
}

func (r *MemoryFollowRepository) list(ctx context.Context, index map[string]map[string]*memoryEdge, userID string) ([]models.FollowEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	entries := make([]*memoryEdge, 0, len(index[userID]))
	for _, e := range index[userID] {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	edges := make([]models.FollowEdge, len(entries))
	for i, e := range entries {
		edges[i] = e.edge
	}
	return edges, nil
}

func (r *MemoryFollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, r.following, userID)
}

func (r *MemoryFollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, r.followers, userID)
}

func (r *MemoryFollowRepository) count(ctx context.Context, index map[string]map[string]*memoryEdge, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(index[userID])), nil
}
