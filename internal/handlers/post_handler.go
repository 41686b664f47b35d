package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts repositories.PostWriter
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts repositories.PostWriter) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
}

type createPostRequest struct {
	Content   string   `json:"content" validate:"required,max=5000"`
	ImageURLs []string `json:"image_urls" validate:"omitempty,max=10,dive,url"`
	VideoURLs []string `json:"video_urls" validate:"omitempty,max=4,dive,url"`
}

// CreatePost publishes a post authored by the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		AuthorID:  currentUserID,
		Content:   req.Content,
		ImageURLs: req.ImageURLs,
		VideoURLs: req.VideoURLs,
	}
	if err := h.posts.CreatePost(c.Request().Context(), post); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": post})
}
