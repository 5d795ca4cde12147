package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, "invalid token"},
		{"wrapped credentials", domain.NewFailure(domain.AuthenticationFailure, "sign in", domain.ErrInvalidCredentials), http.StatusUnauthorized, "invalid credentials"},
		{"duplicate user", fmt.Errorf("create: %w", domain.ErrUserExists), http.StatusConflict, "user already exists"},
		{"invalid input", fmt.Errorf("register: %w", domain.ErrInvalidInput), http.StatusBadRequest, "invalid input"},
		{"missing profile", domain.ErrProfileNotFound, http.StatusNotFound, "profile not found"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"orphaned identity", domain.NewFailure(domain.RegistrationFailure, "sign up",
			errors.Join(errors.New("insert failed"), fmt.Errorf("%w: u1", domain.ErrOrphanedIdentity))),
			http.StatusInternalServerError, "account could not be created, contact an administrator"},
		{"ambiguous profile", domain.NewFailure(domain.ProfileLookupFailure, "load current user", domain.ErrAmbiguousProfile),
			http.StatusConflict, "more than one profile matches this account"},
		{"query failure", domain.NewFailure(domain.QueryFailure, "load books", errors.New("timeout")),
			http.StatusServiceUnavailable, "service temporarily unavailable"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, resp.Error)
			}
		})
	}
}
