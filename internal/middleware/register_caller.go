package middleware

import (
	"time"

	"github.com/anonto42/nano-midea/socialgraph/internal/models"
	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	registeredCacheSize = 10000
	registeredCacheTTL  = 10 * time.Minute
)

// RegisterCaller adds the authenticated caller to the user directory the first time
// they are seen, so users who follow or publish can be resolved by everyone else.
// Existing records are never overwritten. A failed write is logged and the request continues.
// It must run after an auth middleware.
func RegisterCaller(users repositories.UserWriter, logger *zap.Logger) echo.MiddlewareFunc {
	seen := expirable.NewLRU[string, struct{}](registeredCacheSize, nil, registeredCacheTTL)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := c.Get(CallerKey).(*models.User)
			if !ok || caller.ID == "" {
				return next(c)
			}
			if _, known := seen.Get(caller.ID); known {
				return next(c)
			}

			// copy: EnsureUser fills timestamps in place
			record := *caller
			created, err := users.EnsureUser(c.Request().Context(), &record)
			if err != nil {
				logger.Warn("registering caller failed", zap.String("user_id", caller.ID), zap.Error(err))
				return next(c)
			}
			seen.Add(caller.ID, struct{}{})
			if created {
				logger.Info("caller registered in user directory", zap.String("user_id", caller.ID))
			}
			return next(c)
		}
	}
}
