package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anonto42/nano-midea/socialgraph/internal/repositories"
	"github.com/anonto42/nano-midea/socialgraph/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toHTTPError maps domain errors to distinct HTTP statuses and codes
func toHTTPError(err error) *echo.HTTPError {
	var (
		status int
		code   string
	)
	switch {
	case errors.Is(err, services.ErrInvalidUserID):
		status, code = http.StatusBadRequest, "invalid_user_id"
	case errors.Is(err, services.ErrSelfFollow):
		status, code = http.StatusBadRequest, "self_follow"
	case errors.Is(err, services.ErrAlreadyFollowing):
		status, code = http.StatusConflict, "already_following"
	case errors.Is(err, repositories.ErrUserNotFound):
		status, code = http.StatusNotFound, "user_not_found"
	case errors.Is(err, services.ErrBackendUnavailable), errors.Is(err, repositories.ErrBackendUnavailable):
		status, code = http.StatusServiceUnavailable, "backend_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
	}
	return echo.NewHTTPError(status, apiError{Code: code, Message: err.Error()}).SetInternal(err)
}

// ErrorHandler renders every error as {"success": false, "error": {"code", "message"}}
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			he = toHTTPError(err)
		}

		body, ok := he.Message.(apiError)
		if !ok {
			msg := http.StatusText(he.Code)
			if s, isString := he.Message.(string); isString {
				msg = s
			}
			body = apiError{
				Code:    strings.ReplaceAll(strings.ToLower(http.StatusText(he.Code)), " ", "_"),
				Message: msg,
			}
		}
		if he.Code >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(he.Code)
		} else {
			writeErr = c.JSON(he.Code, map[string]interface{}{"success": false, "error": body})
		}
		if writeErr != nil {
			logger.Error("writing error response", zap.Error(writeErr))
		}
	}
}
