package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/librarydesk/internal/api/metrics"
	"github.com/librarydesk/librarydesk/internal/api/view"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

const (
	formLogin    = "login"
	formRegister = "register"
)

var flashes = map[string]string{
	"registered": "Account created. Sign in to continue.",
	"signed_out": "You have been signed out.",
}

type authPage struct {
	Title     string
	Form      string
	Error     string
	Flash     string
	Email     string
	FirstName string
	LastName  string
	CSRF      string
}

// AuthPageHandler serves the sign-in page and its form actions. The access
// token lives in a signed cookie between requests.
type AuthPageHandler struct {
	sessions ports.SessionFactory
	cookies  ports.TokenCookies
}

func NewAuthPageHandler(sessions ports.SessionFactory, cookies ports.TokenCookies) *AuthPageHandler {
	return &AuthPageHandler{sessions: sessions, cookies: cookies}
}

// Show renders the auth page, or sends a client that is already signed in to
// the dashboard.
func (h *AuthPageHandler) Show(c echo.Context) error {
	if token := h.cookies.Token(c.Request()); token != "" {
		st := h.sessions.Open(token).LoadCurrentUser(c.Request().Context())
		if st.Authenticated() {
			return c.Redirect(http.StatusFound, "/dashboard")
		}
	}

	page := authPage{Title: "Sign In", CSRF: csrfToken(c)}
	for key, msg := range flashes {
		if c.QueryParam(key) != "" {
			page.Flash = msg
		}
	}
	return c.Render(http.StatusOK, view.PageAuth, page)
}

func (h *AuthPageHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.formError(c, http.StatusBadRequest, authPage{Form: formLogin, Error: "invalid form"})
	}
	page := authPage{Form: formLogin, Email: req.Email}
	if err := c.Validate(&req); err != nil {
		page.Error = err.Error()
		return h.formError(c, http.StatusUnprocessableEntity, page)
	}

	ctx := c.Request().Context()
	store := h.sessions.Open("")
	err := store.SignIn(ctx, req.Email, req.Password)
	metrics.ObserveAuth("sign_in", err)
	if err != nil {
		status, msg := failureStatus(err)
		page.Error = msg
		return h.formError(c, status, page)
	}

	st := store.LoadCurrentUser(ctx)
	metrics.ObserveSession(st)
	if !st.Authenticated() {
		page.Error = "signed in, but your profile could not be loaded"
		return h.formError(c, http.StatusServiceUnavailable, page)
	}

	if err := h.cookies.Save(c.Response(), c.Request(), store.Token()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *AuthPageHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return h.formError(c, http.StatusBadRequest, authPage{Form: formRegister, Error: "invalid form"})
	}
	page := authPage{Form: formRegister, Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	if err := c.Validate(&req); err != nil {
		page.Error = err.Error()
		return h.formError(c, http.StatusUnprocessableEntity, page)
	}

	err := h.sessions.Open("").SignUp(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	metrics.ObserveAuth("sign_up", err)
	if err != nil {
		status, msg := failureStatus(err)
		page.Error = msg
		return h.formError(c, status, page)
	}
	return c.Redirect(http.StatusSeeOther, "/auth?registered=1")
}

// Logout revokes the cookie's token. The cookie is only cleared once the
// sign-out succeeded; a failure renders the shell with a notice.
func (h *AuthPageHandler) Logout(c echo.Context) error {
	token := h.cookies.Token(c.Request())
	if token != "" {
		ctx := c.Request().Context()
		store := h.sessions.Open(token)
		err := store.SignOut(ctx)
		metrics.ObserveAuth("sign_out", err)
		if err != nil {
			status, _ := failureStatus(err)
			return c.Render(status, view.PageSection, shellPage{
				Title:  "Sign Out",
				User:   store.LoadCurrentUser(ctx).Profile,
				Menu:   sidebar,
				CSRF:   csrfToken(c),
				Notice: "Sign out failed. You are still signed in, please try again.",
			})
		}
	}

	if err := h.cookies.Clear(c.Response(), c.Request()); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/auth?signed_out=1")
}

func (h *AuthPageHandler) formError(c echo.Context, status int, page authPage) error {
	page.Title = "Sign In"
	page.CSRF = csrfToken(c)
	return c.Render(status, view.PageAuth, page)
}
