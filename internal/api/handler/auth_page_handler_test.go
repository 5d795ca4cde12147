package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestAuthPage_Login_SavesCookieAndRedirects(t *testing.T) {
	e := newEcho()
	sess := &stubSession{
		signInFn: func(context.Context, string, string) error { return nil },
		loaded:   signedInState,
	}
	cookies := &stubCookies{}
	handler := NewAuthPageHandler(&stubFactory{session: sess}, cookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/auth/login", url.Values{
		"email": {"ada@example.com"}, "password": {"secret1"},
	}), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %q", loc)
	}
	if cookies.token != "issued-token" {
		t.Fatalf("expected token in cookie, got %q", cookies.token)
	}
}

func TestAuthPage_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	sess := &stubSession{
		signInFn: func(context.Context, string, string) error {
			return domain.NewFailure(domain.AuthenticationFailure, "sign in", domain.ErrInvalidCredentials)
		},
	}
	cookies := &stubCookies{}
	handler := NewAuthPageHandler(&stubFactory{session: sess}, cookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/auth/login", url.Values{
		"email": {"ada@example.com"}, "password": {"wrong"},
	}), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "invalid email or password") {
		t.Fatalf("expected error message in page")
	}
	if !strings.Contains(body, `value="ada@example.com"`) {
		t.Fatalf("expected email to be kept in the form")
	}
	if cookies.token != "" {
		t.Fatalf("no cookie expected")
	}
}

func TestAuthPage_Login_ProfileMissing(t *testing.T) {
	e := newEcho()
	sess := &stubSession{
		signInFn: func(context.Context, string, string) error { return nil },
		loaded:   domain.SessionState{},
	}
	cookies := &stubCookies{}
	handler := NewAuthPageHandler(&stubFactory{session: sess}, cookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/auth/login", url.Values{
		"email": {"ada@example.com"}, "password": {"secret1"},
	}), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if cookies.token != "" {
		t.Fatalf("no cookie expected without a profile")
	}
}

func TestAuthPage_Register_RedirectsWithFlash(t *testing.T) {
	e := newEcho()
	sess := &stubSession{
		signUpFn: func(_ context.Context, email, _, first, last string) error {
			if email != "ada@example.com" || first != "Ada" || last != "Lovelace" {
				t.Fatalf("unexpected sign-up args: %s %s %s", email, first, last)
			}
			return nil
		},
	}
	handler := NewAuthPageHandler(&stubFactory{session: sess}, &stubCookies{})

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/auth/register", url.Values{
		"email": {"ada@example.com"}, "password": {"secret1"},
		"first_name": {"Ada"}, "last_name": {"Lovelace"},
	}), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/auth?registered=1" {
		t.Fatalf("unexpected redirect %q", loc)
	}
}

func TestAuthPage_Register_FailureKeepsForm(t *testing.T) {
	e := newEcho()
	sess := &stubSession{
		signUpFn: func(context.Context, string, string, string, string) error {
			return domain.NewFailure(domain.RegistrationFailure, "sign up", errors.New("insert failed"))
		},
	}
	handler := NewAuthPageHandler(&stubFactory{session: sess}, &stubCookies{})

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest("/auth/register", url.Values{
		"email": {"ada@example.com"}, "password": {"secret1"},
		"first_name": {"Ada"}, "last_name": {"Lovelace"},
	}), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `value="Lovelace"`) {
		t.Fatalf("expected form values to be kept")
	}
}

func TestAuthPage_Show_Flash(t *testing.T) {
	e := newEcho()
	handler := NewAuthPageHandler(&stubFactory{session: &stubSession{}}, &stubCookies{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth?registered=1", nil), rec)
	if err := handler.Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Account created. Sign in to continue.") {
		t.Fatalf("expected flash message")
	}
}

func TestAuthPage_Show_SignedInRedirects(t *testing.T) {
	e := newEcho()
	sess := &stubSession{loaded: signedInState}
	handler := NewAuthPageHandler(&stubFactory{session: sess}, &stubCookies{token: "issued-token"})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth", nil), rec)
	if err := handler.Show(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %d", rec.Code)
	}
}

func TestAuthPage_Logout(t *testing.T) {
	e := newEcho()
	sess := &stubSession{
		state:     signedInState,
		signOutFn: func(context.Context) error { return nil },
	}
	factory := &stubFactory{session: sess}
	cookies := &stubCookies{token: "issued-token"}
	handler := NewAuthPageHandler(factory, cookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if !cookies.cleared {
		t.Fatalf("expected cookie to be cleared")
	}
	if len(factory.opened) != 1 || factory.opened[0] != "issued-token" {
		t.Fatalf("expected session opened from cookie token, got %v", factory.opened)
	}
}

func TestAuthPage_Logout_FailureKeepsCookie(t *testing.T) {
	e := newEcho()
	sess := &stubSession{
		state:  signedInState,
		loaded: signedInState,
		signOutFn: func(context.Context) error {
			return domain.NewFailure(domain.SignOutFailure, "sign out", errors.New("redis down"))
		},
	}
	cookies := &stubCookies{token: "issued-token"}
	handler := NewAuthPageHandler(&stubFactory{session: sess}, cookies)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), rec)
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Sign out failed.") || !strings.Contains(body, "Ada Lovelace") {
		t.Fatalf("expected shell page with notice:\n%s", body)
	}
	if strings.Contains(body, `"error"`) {
		t.Fatalf("expected html, got json envelope")
	}
	if cookies.cleared || cookies.token != "issued-token" {
		t.Fatalf("cookie must be kept when sign-out fails")
	}
}
