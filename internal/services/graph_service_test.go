package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyDirectory wraps a directory and fails lookups for selected ids
type flakyDirectory struct {
	next repositories.UserDirectory
	fail map[string]bool
}

func (d *flakyDirectory) Summarize(ctx context.Context, userID string) (*models.UserSummary, error) {
	if d.fail[userID] {
		return nil, errors.New("directory timeout")
	}
	return d.next.Summarize(ctx, userID)
}

// brokenEdges fails every call with a storage error
type brokenEdges struct{}

var errConnRefused = fmt.Errorf("dial: %w: connection refused", repositories.ErrBackendUnavailable)

func (brokenEdges) Create(context.Context, string, string) (*models.FollowEdge, error) {
	return nil, errConnRefused
}
func (brokenEdges) Delete(context.Context, string, string) (bool, error) {
	return false, errConnRefused
}
func (brokenEdges) Exists(context.Context, string, string) (bool, error) {
	return false, errConnRefused
}
func (brokenEdges) ListFollowing(context.Context, string) ([]models.FollowEdge, error) {
	return nil, errConnRefused
}
func (brokenEdges) ListFollowers(context.Context, string) ([]models.FollowEdge, error) {
	return nil, errConnRefused
}
func (brokenEdges) CountFollowing(context.Context, string) (int64, error) { return 0, errConnRefused }
func (brokenEdges) CountFollowers(context.Context, string) (int64, error) { return 0, errConnRefused }

type graphFixture struct {
	service *GraphService
	edges   *repositories.MemoryFollowRepository
	users   *repositories.MemoryUserRepository
	dir     *flakyDirectory
}

func newGraphFixture(t *testing.T, userIDs ...string) *graphFixture {
	t.Helper()
	users := repositories.NewMemoryUserRepository()
	for _, id := range userIDs {
		require.NoError(t, users.CreateUser(context.Background(), &models.User{
			ID:       id,
			Username: "user_" + id,
			FullName: "User " + id,
		}))
	}
	dir := &flakyDirectory{next: users, fail: map[string]bool{}}
	edges := repositories.NewMemoryFollowRepository()
	return &graphFixture{
		service: NewGraphService(edges, dir, zap.NewNop()),
		edges:   edges,
		users:   users,
		dir:     dir,
	}
}

func TestGraphService_FollowSelf(t *testing.T) {
	f := newGraphFixture(t, "a")

	_, err := f.service.FollowUser(context.Background(), "a", "a")
	require.ErrorIs(t, err, ErrSelfFollow)

	_, err = f.service.UnfollowUser(context.Background(), "a", "a")
	require.ErrorIs(t, err, ErrSelfFollow)
}

func TestGraphService_EmptyIDs(t *testing.T) {
	f := newGraphFixture(t)
	ctx := context.Background()

	_, err := f.service.FollowUser(ctx, "", "b")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = f.service.UnfollowUser(ctx, "a", "")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = f.service.CheckFollowStatus(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = f.service.GetFollowers(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = f.service.GetFollowing(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = f.service.GetFollowStats(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidUserID)
}

func TestGraphService_FollowThenStatus(t *testing.T) {
	f := newGraphFixture(t, "a", "b")
	ctx := context.Background()

	detail, err := f.service.FollowUser(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a", detail.Edge.FollowerID)
	assert.Equal(t, "b", detail.Edge.FollowingID)
	require.NotNil(t, detail.Follower)
	require.NotNil(t, detail.Following)
	assert.Equal(t, "user_a", detail.Follower.Username)
	assert.Equal(t, "user_b", detail.Following.Username)

	following, err := f.service.CheckFollowStatus(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, following)

	edges, err := f.edges.ListFollowers(ctx, "b")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "a", edges[0].FollowerID)

	_, err = f.service.FollowUser(ctx, "a", "b")
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestGraphService_FollowSurvivesDirectoryFailure(t *testing.T) {
	f := newGraphFixture(t, "a", "b")
	f.dir.fail["b"] = true
	ctx := context.Background()

	detail, err := f.service.FollowUser(ctx, "a", "b")
	require.NoError(t, err)
	assert.NotNil(t, detail.Follower)
	assert.Nil(t, detail.Following)

	exists, err := f.edges.Exists(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGraphService_UnfollowIsIdempotent(t *testing.T) {
	f := newGraphFixture(t, "a", "b")
	ctx := context.Background()

	_, err := f.service.FollowUser(ctx, "a", "b")
	require.NoError(t, err)

	changed, err := f.service.UnfollowUser(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.service.UnfollowUser(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, changed)

	following, err := f.service.CheckFollowStatus(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, following)
}

func TestGraphService_ListsResolveSummaries(t *testing.T) {
	f := newGraphFixture(t, "a", "b", "c", "d")
	ctx := context.Background()

	for _, follower := range []string{"b", "c", "d"} {
		_, err := f.service.FollowUser(ctx, follower, "a")
		require.NoError(t, err)
	}
	_, err := f.service.FollowUser(ctx, "a", "c")
	require.NoError(t, err)

	followers, err := f.service.GetFollowers(ctx, "a")
	require.NoError(t, err)
	require.Len(t, followers, 3)
	assert.Equal(t, "b", followers[0].ID)
	assert.Equal(t, "user_c", followers[1].Username)

	following, err := f.service.GetFollowing(ctx, "a")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "c", following[0].ID)
}

func TestGraphService_ListDropsUnresolvable(t *testing.T) {
	f := newGraphFixture(t, "a", "b", "c", "d")
	f.dir.fail["c"] = true
	ctx := context.Background()

	for _, follower := range []string{"b", "c", "d"} {
		_, err := f.service.FollowUser(ctx, follower, "a")
		require.NoError(t, err)
	}

	followers, err := f.service.GetFollowers(ctx, "a")
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "b", followers[0].ID)
	assert.Equal(t, "d", followers[1].ID)
}

func TestGraphService_EmptyGraph(t *testing.T) {
	f := newGraphFixture(t, "a")

	following, err := f.service.GetFollowing(context.Background(), "a")
	require.NoError(t, err)
	assert.NotNil(t, following)
	assert.Empty(t, following)
}

func TestGraphService_FollowStats(t *testing.T) {
	f := newGraphFixture(t, "a", "b", "c")
	ctx := context.Background()

	for _, pair := range [][2]string{{"a", "b"}, {"c", "b"}, {"b", "a"}} {
		_, err := f.service.FollowUser(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	stats, err := f.service.GetFollowStats(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, &models.FollowStats{UserID: "b", Followers: 2, Following: 1}, stats)
}

func TestGraphService_ConcurrentFollow(t *testing.T) {
	f := newGraphFixture(t, "a", "b")
	ctx := context.Background()
	const n = 32

	results := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.service.FollowUser(ctx, "a", "b")
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyFollowing):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)

	count, err := f.edges.CountFollowers(ctx, "b")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGraphService_BackendUnavailable(t *testing.T) {
	users := repositories.NewMemoryUserRepository()
	service := NewGraphService(brokenEdges{}, users, zap.NewNop())
	ctx := context.Background()

	_, err := service.FollowUser(ctx, "a", "b")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	_, err = service.UnfollowUser(ctx, "a", "b")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	_, err = service.CheckFollowStatus(ctx, "a", "b")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	_, err = service.GetFollowers(ctx, "a")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	_, err = service.GetFollowStats(ctx, "a")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"duplicate", repositories.ErrAlreadyExists, ErrAlreadyFollowing},
		{"self", repositories.ErrSelfReference, ErrSelfFollow},
		{"storage", errConnRefused, ErrBackendUnavailable},
		{"unknown", errors.New("boom"), ErrBackendUnavailable},
		{"cancelled", fmt.Errorf("list: %w", context.Canceled), context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tt.in), tt.want)
		})
	}
	assert.NoError(t, translate(nil))
}
