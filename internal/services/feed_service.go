package services

import (
	"context"
	"sort"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
	"go.uber.org/zap"
)

// FeedAssembler builds a user's reverse-chronological feed. A push-based,
// materialized implementation can replace the pull one behind this interface.
type FeedAssembler interface {
	GetFeed(ctx context.Context, userID string) ([]models.FeedEntry, error)
}

// FollowingLister is the part of the graph the feed reads
type FollowingLister interface {
	GetFollowing(ctx context.Context, userID string) ([]models.UserSummary, error)
}

// FeedOptions tunes PullFeedAssembler
type FeedOptions struct {
	// IncludeOwnPosts adds the requesting user's posts to their feed.
	// Off by default: a feed holds posts of followed authors only.
	IncludeOwnPosts bool
}

// PullFeedAssembler computes feeds on read: following set, then their posts, newest first.
// The following set comes from GetFollowing, so a followed author the directory cannot
// resolve is left out together with their posts. The graph logs each such miss.
type PullFeedAssembler struct {
	graph  FollowingLister
	posts  repositories.PostRepository
	users  repositories.UserDirectory
	opts   FeedOptions
	logger *zap.Logger
}

// NewPullFeedAssembler creates a new PullFeedAssembler
func NewPullFeedAssembler(graph FollowingLister, posts repositories.PostRepository, users repositories.UserDirectory, opts FeedOptions, logger *zap.Logger) *PullFeedAssembler {
	return &PullFeedAssembler{graph: graph, posts: posts, users: users, opts: opts, logger: logger}
}

func (a *PullFeedAssembler) GetFeed(ctx context.Context, userID string) ([]models.FeedEntry, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	following, err := a.graph.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	authors := make(map[string]models.UserSummary, len(following)+1)
	for _, u := range following {
		authors[u.ID] = u
	}
	if a.opts.IncludeOwnPosts {
		if self, err := a.users.Summarize(ctx, userID); err == nil {
			authors[userID] = *self
		} else {
			a.logger.Warn("own summary unavailable, omitting own posts", zap.String("user_id", userID), zap.Error(err))
		}
	}
	if len(authors) == 0 {
		return []models.FeedEntry{}, nil
	}

	ids := make([]string, 0, len(authors))
	for id := range authors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	posts, err := a.posts.PostsByAuthors(ctx, ids)
	if err != nil {
		return nil, translate(err)
	}

	feed := make([]models.FeedEntry, 0, len(posts))
	for _, p := range posts {
		author, ok := authors[p.AuthorID]
		if !ok {
			continue
		}
		feed = append(feed, models.FeedEntry{Post: p, Author: author})
	}
	// re-sort so ordering does not depend on the post backend
	sort.SliceStable(feed, func(i, j int) bool {
		if !feed[i].CreatedAt.Equal(feed[j].CreatedAt) {
			return feed[i].CreatedAt.After(feed[j].CreatedAt)
		}
		return feed[i].ID > feed[j].ID
	})
	return feed, nil
}
