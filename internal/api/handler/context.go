package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

// ctxSession returns the session resolved by the Auth or Shell middleware.
// A missing session or identity means the middleware did not run.
func ctxSession(c echo.Context) (ports.Session, *domain.Identity, error) {
	store, _ := c.Get("session").(ports.Session)
	identity, _ := c.Get("identity").(*domain.Identity)
	if store == nil || identity == nil {
		return nil, nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return store, identity, nil
}

// csrfToken returns the token set by echo's CSRF middleware, or "" when the
// route is not protected.
func csrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
