package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/socialgraph/internal/middleware"
	"github.com/labstack/echo/v4"
)

func getUserIDFromContext(c echo.Context) string {
	id, _ := c.Get(middleware.UserIDKey).(string)
	return id
}

func requireUserID(c echo.Context) (string, error) {
	id := getUserIDFromContext(c)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return id, nil
}
