package handler

import (
	"errors"
	"net/http"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

// failureStatus maps a session or dashboard error to a response status and a
// message that is safe to show to the client.
func failureStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrOrphanedIdentity):
		return http.StatusInternalServerError, "account could not be created, contact an administrator"
	case errors.Is(err, domain.ErrAmbiguousProfile):
		return http.StatusConflict, "more than one profile matches this account"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "an account with this email already exists"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid email or password too short"
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, "profile not found"
	}

	switch domain.KindOf(err) {
	case domain.SignOutFailure:
		return http.StatusServiceUnavailable, "sign out failed, try again"
	case domain.QueryFailure, domain.ProfileLookupFailure:
		return http.StatusServiceUnavailable, "library data is unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}
