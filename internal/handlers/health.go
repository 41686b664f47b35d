package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and the active storage backend
type HealthHandler struct {
	backend string
}

func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{backend: backend}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "socialgraph",
		"backend": h.backend,
	})
}
