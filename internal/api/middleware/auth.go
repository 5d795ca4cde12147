package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/librarydesk/librarydesk/internal/api/metrics"
	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
)

// Auth resolves the bearer token into a session and injects it into context.
func Auth(sessions ports.SessionFactory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			store := sessions.Open(parts[1])
			st := store.LoadCurrentUser(c.Request().Context())
			metrics.ObserveSession(st)
			if !st.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			setSession(c, store, st)
			return next(c)
		}
	}
}

// setSession stores the session, its identity and the profile role under the
// keys read by handlers and RBAC.
func setSession(c echo.Context, store ports.Session, st domain.SessionState) {
	role := ""
	if st.Profile != nil {
		role = st.Profile.Role
	}
	c.Set("session", store)
	c.Set("identity", st.Identity)
	c.Set("role", role)
}
