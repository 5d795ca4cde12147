package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/librarydesk/internal/api/metrics"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

// Shell guards the dashboard pages. The session is loaded once per request
// from the token cookie; a client without an identity is redirected to
// loginPath. The cookie is dropped only when its token was rejected; a
// backend fault keeps it for the next request.
func Shell(sessions ports.SessionFactory, cookies ports.TokenCookies, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := cookies.Token(c.Request())
			store := sessions.Open(token)
			st := store.LoadCurrentUser(c.Request().Context())
			metrics.ObserveSession(st)

			if !st.Authenticated() {
				if token != "" && store.Token() == "" {
					if err := cookies.Clear(c.Response(), c.Request()); err != nil {
						return err
					}
				}
				return c.Redirect(http.StatusFound, loginPath)
			}

			setSession(c, store, st)
			return next(c)
		}
	}
}
