package handlers

import (
	"math"
	"net/http"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/anonto42/nano-midea/socialgraph/internal/services"
	"github.com/labstack/echo/v4"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	feed services.FeedAssembler
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed services.FeedAssembler) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

type feedQuery struct {
	Page  int `query:"page" validate:"min=0"`
	Limit int `query:"limit" validate:"min=0"`
}

// GetFeed returns one page of the caller's feed, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var q feedQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid pagination parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}

	entries, err := h.feed.GetFeed(c.Request().Context(), currentUserID)
	if err != nil {
		return toHTTPError(err)
	}

	totalItems := len(entries)
	// compare before multiplying so a huge page cannot overflow
	start := totalItems
	if page-1 <= totalItems/limit {
		start = (page - 1) * limit
	}
	end := start + limit
	if end > totalItems {
		end = totalItems
	}
	pageEntries := entries[start:end]
	if pageEntries == nil {
		pageEntries = []models.FeedEntry{}
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": pageEntries,
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}
