package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler serves user summaries from the user directory
type UserHandler struct {
	directory repositories.UserDirectory
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(directory repositories.UserDirectory) *UserHandler {
	return &UserHandler{directory: directory}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.GET("/users/:id", h.GetUser)
}

// GetProfile returns the caller's own summary
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}
	return h.summary(c, currentUserID)
}

// GetUser returns another user's summary by id
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := bindUserParam(c)
	if err != nil {
		return err
	}
	return h.summary(c, userID)
}

func (h *UserHandler) summary(c echo.Context, userID string) error {
	user, err := h.directory.Summarize(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}
