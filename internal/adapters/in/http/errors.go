package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"dispatch/internal/generated/servers"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// RetryAfterSeconds is sent with 503 responses for lock timeouts.
const RetryAfterSeconds = 1

// StatusOf maps the errs taxonomy onto HTTP status codes.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrResourceBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrAlreadyAssigned),
		errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as servers.Error. Server side failures get a generic message
// and are logged; the client never sees driver errors.
func writeError(ctx echo.Context, logger *slog.Logger, err error) error {
	status := StatusOf(err)
	message := err.Error()

	switch status {
	case http.StatusServiceUnavailable:
		ctx.Response().Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
		message = "resource is busy, retry shortly"
	case http.StatusInternalServerError:
		logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = http.StatusText(http.StatusInternalServerError)
	}

	return ctx.JSON(status, servers.Error{Code: status, Message: message})
}

// ErrorHandler renders errors that never reached a handler (unknown routes, binding
// and validation failures) in the same shape as handler errors.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			message := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok && m != "" {
				message = m
			}
			if he.Code >= http.StatusInternalServerError {
				logger.ErrorContext(ctx.Request().Context(), "request failed", "path", ctx.Path(), "error", err)
			}
			_ = ctx.JSON(he.Code, servers.Error{Code: he.Code, Message: message})
			return
		}

		_ = writeError(ctx, logger, err)
	}
}
