package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/labstack/echo/v4"
)

// GraphService is the follow graph as the HTTP layer uses it
type GraphService interface {
	FollowUser(ctx context.Context, followerID, followingID string) (*models.FollowDetail, error)
	UnfollowUser(ctx context.Context, followerID, followingID string) (bool, error)
	CheckFollowStatus(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowing(ctx context.Context, userID string) ([]models.UserSummary, error)
	GetFollowers(ctx context.Context, userID string) ([]models.UserSummary, error)
	GetFollowStats(ctx context.Context, userID string) (*models.FollowStats, error)
}

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	graph GraphService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(graph GraphService) *FollowHandler {
	return &FollowHandler{graph: graph}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/follow", h.FollowStatus)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/follow-stats", h.GetFollowStats)
}

type userParam struct {
	ID string `param:"id" validate:"required,max=64"`
}

func bindUserParam(c echo.Context) (string, error) {
	var p userParam
	if err := c.Bind(&p); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}
	if err := c.Validate(&p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// FollowUser follows the user in the path as the caller
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := bindUserParam(c)
	if err != nil {
		return err
	}

	detail, err := h.graph.FollowUser(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": detail})
}

// UnfollowUser unfollows the user in the path. Unfollowing someone you don't follow succeeds.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := bindUserParam(c)
	if err != nil {
		return err
	}

	changed, err := h.graph.UnfollowUser(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return toHTTPError(err)
	}
	message := "Unfollowed user"
	if !changed {
		message = "Not following this user"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": message,
		"data":    echo.Map{"following": false, "changed": changed},
	})
}

// FollowStatus reports whether the caller follows the user in the path
func (h *FollowHandler) FollowStatus(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	targetID, err := bindUserParam(c)
	if err != nil {
		return err
	}

	following, err := h.graph.CheckFollowStatus(c.Request().Context(), currentUserID, targetID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": following}})
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	return h.listUsers(c, h.graph.GetFollowing)
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	return h.listUsers(c, h.graph.GetFollowers)
}

func (h *FollowHandler) listUsers(c echo.Context, list func(context.Context, string) ([]models.UserSummary, error)) error {
	userID, err := bindUserParam(c)
	if err != nil {
		return err
	}
	users, err := list(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"users": users, "count": len(users)}})
}

func (h *FollowHandler) GetFollowStats(c echo.Context) error {
	userID, err := bindUserParam(c)
	if err != nil {
		return err
	}
	stats, err := h.graph.GetFollowStats(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": stats})
}
