package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrOrphanedIdentity):
		logFailure(log.Error(), err, c, "identity left without a profile")
		return http.StatusInternalServerError, "account could not be created, contact an administrator"
	case errors.Is(err, domain.ErrAmbiguousProfile):
		logFailure(log.Warn(), err, c, "profile lookup matched several rows")
		return http.StatusConflict, "more than one profile matches this account"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "profile not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	}

	// Backend faults surfaced as failures are retryable.
	switch domain.KindOf(err) {
	case domain.SignOutFailure, domain.QueryFailure, domain.ProfileLookupFailure:
		logFailure(log.Warn(), err, c, "backend unavailable")
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	logFailure(log.Error(), err, c, "unhandled error")
	return http.StatusInternalServerError, "internal server error"
}

func logFailure(ev *zerolog.Event, err error, c echo.Context, msg string) {
	ev.Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("kind", string(domain.KindOf(err))).
		Msg(msg)
}
