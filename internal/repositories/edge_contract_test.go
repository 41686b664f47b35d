package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runEdgeRepositoryContract checks the guarantees every EdgeRepository backend shares.
// User ids are random per test so a shared database needs no cleanup.
func runEdgeRepositoryContract(t *testing.T, newRepo func(t *testing.T) EdgeRepository) {
	ctx := context.Background()
	newID := func(name string) string { return name + "-" + uuid.NewString() }

	t.Run("rejects self reference", func(t *testing.T) {
		repo := newRepo(t)
		u := newID("u")

		_, err := repo.Create(ctx, u, u)
		require.ErrorIs(t, err, ErrSelfReference)

		exists, err := repo.Exists(ctx, u, u)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("create then exists", func(t *testing.T) {
		repo := newRepo(t)
		a, b := newID("a"), newID("b")

		edge, err := repo.Create(ctx, a, b)
		require.NoError(t, err)
		assert.NotEmpty(t, edge.ID)
		assert.Equal(t, a, edge.FollowerID)
		assert.Equal(t, b, edge.FollowingID)
		assert.False(t, edge.CreatedAt.IsZero())

		exists, err := repo.Exists(ctx, a, b)
		require.NoError(t, err)
		assert.True(t, exists)

		reverse, err := repo.Exists(ctx, b, a)
		require.NoError(t, err)
		assert.False(t, reverse, "edges are directed")
	})

	t.Run("created edge matches stored edge", func(t *testing.T) {
		repo := newRepo(t)
		a, b := newID("a"), newID("b")

		created, err := repo.Create(ctx, a, b)
		require.NoError(t, err)

		following, err := repo.ListFollowing(ctx, a)
		require.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, created.ID, following[0].ID)
		assert.True(t, created.CreatedAt.Equal(following[0].CreatedAt),
			"created %s, stored %s", created.CreatedAt, following[0].CreatedAt)
	})

	t.Run("duplicate pair fails", func(t *testing.T) {
		repo := newRepo(t)
		a, b := newID("a"), newID("b")

		_, err := repo.Create(ctx, a, b)
		require.NoError(t, err)
		_, err = repo.Create(ctx, a, b)
		require.ErrorIs(t, err, ErrAlreadyExists)

		_, err = repo.Create(ctx, b, a)
		require.NoError(t, err, "the reverse direction is a different pair")

		followers, err := repo.ListFollowers(ctx, b)
		require.NoError(t, err)
		assert.Len(t, followers, 1)
	})

	t.Run("delete reports removal", func(t *testing.T) {
		repo := newRepo(t)
		a, b := newID("a"), newID("b")

		_, err := repo.Create(ctx, a, b)
		require.NoError(t, err)

		removed, err := repo.Delete(ctx, a, b)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.Delete(ctx, a, b)
		require.NoError(t, err)
		assert.False(t, removed)

		exists, err := repo.Exists(ctx, a, b)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = repo.Create(ctx, a, b)
		require.NoError(t, err, "a deleted pair can be followed again")
	})

	t.Run("lists in creation order", func(t *testing.T) {
		repo := newRepo(t)
		a, b, c, d := newID("a"), newID("b"), newID("c"), newID("d")

		for _, target := range []string{c, b, d} {
			_, err := repo.Create(ctx, a, target)
			require.NoError(t, err)
		}
		_, err := repo.Create(ctx, b, c)
		require.NoError(t, err)

		following, err := repo.ListFollowing(ctx, a)
		require.NoError(t, err)
		require.Len(t, following, 3)
		assert.Equal(t, []string{c, b, d}, []string{following[0].FollowingID, following[1].FollowingID, following[2].FollowingID})

		followers, err := repo.ListFollowers(ctx, c)
		require.NoError(t, err)
		require.Len(t, followers, 2)
		assert.Equal(t, a, followers[0].FollowerID)
		assert.Equal(t, b, followers[1].FollowerID)

		empty, err := repo.ListFollowing(ctx, newID("nobody"))
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("counts", func(t *testing.T) {
		repo := newRepo(t)
		a, b, c := newID("a"), newID("b"), newID("c")

		for _, pair := range [][2]string{{a, b}, {a, c}, {c, b}} {
			_, err := repo.Create(ctx, pair[0], pair[1])
			require.NoError(t, err)
		}

		following, err := repo.CountFollowing(ctx, a)
		require.NoError(t, err)
		assert.EqualValues(t, 2, following)

		followers, err := repo.CountFollowers(ctx, b)
		require.NoError(t, err)
		assert.EqualValues(t, 2, followers)

		none, err := repo.CountFollowers(ctx, a)
		require.NoError(t, err)
		assert.EqualValues(t, 0, none)
	})

	t.Run("concurrent creates store one edge", func(t *testing.T) {
		repo := newRepo(t)
		a, b := newID("a"), newID("b")
		const n = 16

		var (
			wg         sync.WaitGroup
			mu         sync.Mutex
			created    int
			duplicates int
			other      []error
		)
		start := make(chan struct{})
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := repo.Create(ctx, a, b)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case errorIs(err, ErrAlreadyExists):
					duplicates++
				default:
					other = append(other, err)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Empty(t, other)
		assert.Equal(t, 1, created)
		assert.Equal(t, n-1, duplicates)

		edges, err := repo.ListFollowing(ctx, a)
		require.NoError(t, err)
		assert.Len(t, edges, 1)
	})

	t.Run("cancelled context writes nothing", func(t *testing.T) {
		repo := newRepo(t)
		a, b := newID("a"), newID("b")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.Create(cancelled, a, b)
		require.Error(t, err)

		exists, err := repo.Exists(ctx, a, b)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
