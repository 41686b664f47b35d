package services

import (
	"context"
	"fmt"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
	"go.uber.org/zap"
)

// GraphService enforces the follow invariants on top of an EdgeRepository.
// It holds no state of its own; concurrency safety comes from the repository.
type GraphService struct {
	edges  repositories.EdgeRepository
	users  repositories.UserDirectory
	logger *zap.Logger
}

// NewGraphService creates a new GraphService
func NewGraphService(edges repositories.EdgeRepository, users repositories.UserDirectory, logger *zap.Logger) *GraphService {
	return &GraphService{edges: edges, users: users, logger: logger}
}

// FollowUser creates the edge follower -> following and decorates it with both users.
// Decoration is best effort: the edge is returned even when a lookup fails.
func (s *GraphService) FollowUser(ctx context.Context, followerID, followingID string) (*models.FollowDetail, error) {
	if err := checkPair(followerID, followingID); err != nil {
		return nil, err
	}

	edge, err := s.edges.Create(ctx, followerID, followingID)
	if err != nil {
		return nil, translate(err)
	}

	detail := &models.FollowDetail{Edge: *edge}
	detail.Follower, _ = s.summarize(ctx, followerID)
	detail.Following, _ = s.summarize(ctx, followingID)
	return detail, nil
}

// UnfollowUser removes the edge if present. It reports whether anything changed;
// unfollowing a user you don't follow succeeds with changed == false.
func (s *GraphService) UnfollowUser(ctx context.Context, followerID, followingID string) (bool, error) {
	if err := checkPair(followerID, followingID); err != nil {
		return false, err
	}

	removed, err := s.edges.Delete(ctx, followerID, followingID)
	if err != nil {
		return false, translate(err)
	}
	return removed, nil
}

func (s *GraphService) CheckFollowStatus(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followingID == "" {
		return false, ErrInvalidUserID
	}
	ok, err := s.edges.Exists(ctx, followerID, followingID)
	return ok, translate(err)
}

// GetFollowing lists the users userID follows, in edge creation order.
// Users the directory cannot resolve are dropped from the result.
func (s *GraphService) GetFollowing(ctx context.Context, userID string) ([]models.UserSummary, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	edges, err := s.edges.ListFollowing(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return s.resolve(ctx, edges, func(e models.FollowEdge) string { return e.FollowingID }), nil
}

// GetFollowers lists the users following userID, in edge creation order.
// Users the directory cannot resolve are dropped from the result.
func (s *GraphService) GetFollowers(ctx context.Context, userID string) ([]models.UserSummary, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	edges, err := s.edges.ListFollowers(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return s.resolve(ctx, edges, func(e models.FollowEdge) string { return e.FollowerID }), nil
}

func (s *GraphService) GetFollowStats(ctx context.Context, userID string) (*models.FollowStats, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	followers, err := s.edges.CountFollowers(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	following, err := s.edges.CountFollowing(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return &models.FollowStats{UserID: userID, Followers: followers, Following: following}, nil
}

func (s *GraphService) resolve(ctx context.Context, edges []models.FollowEdge, counterpart func(models.FollowEdge) string) []models.UserSummary {
	summaries := make([]models.UserSummary, 0, len(edges))
	for _, e := range edges {
		summary, err := s.summarize(ctx, counterpart(e))
		if err != nil {
			continue
		}
		summaries = append(summaries, *summary)
	}
	return summaries
}

func (s *GraphService) summarize(ctx context.Context, userID string) (*models.UserSummary, error) {
	summary, err := s.users.Summarize(ctx, userID)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrDirectoryLookupFailed, err)
		s.logger.Warn("user summary unavailable", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return summary, nil
}

func checkPair(followerID, followingID string) error {
	if followerID == "" || followingID == "" {
		return ErrInvalidUserID
	}
	if followerID == followingID {
		return ErrSelfFollow
	}
	return nil
}
