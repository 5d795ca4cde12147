package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/librarydesk/librarydesk/docs"
	"github.com/librarydesk/librarydesk/internal/api/handler"
	"github.com/librarydesk/librarydesk/internal/api/metrics"
	"github.com/librarydesk/librarydesk/internal/api/middleware"
	"github.com/librarydesk/librarydesk/internal/api/view"
	"github.com/librarydesk/librarydesk/internal/core/domain"
	"github.com/librarydesk/librarydesk/internal/core/ports"
	"github.com/librarydesk/librarydesk/internal/core/service"
	"github.com/librarydesk/librarydesk/internal/infrastructure/cookie"
	mongorepo "github.com/librarydesk/librarydesk/internal/infrastructure/db/mongo"
	redisrepo "github.com/librarydesk/librarydesk/internal/infrastructure/db/redis"
	"github.com/librarydesk/librarydesk/internal/pkg/config"
)

const loginPath = "/auth"

// Dependencies are the collaborators NewRouter wires into the handlers.
type Dependencies struct {
	Sessions  ports.SessionFactory
	Dashboard ports.DashboardService
	Cookies   ports.TokenCookies
	Sink      ports.ErrorSink
	Checks    map[string]handler.Check
	Log       zerolog.Logger

	// Registerer receives the request metrics. Nil means the default
	// registry, which is also the one served on /metrics.
	Registerer prometheus.Registerer
}

// NewDependencies builds the production dependency graph on top of an open
// MongoDB database and Redis client.
func NewDependencies(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) Dependencies {
	authRepo := mongorepo.NewAuthRepository(db)
	profileRepo := mongorepo.NewProfileRepository(db)
	bookRepo := mongorepo.NewBookRepository(db)
	revoker := redisrepo.NewRevocationList(rdb)

	authService := service.NewAuthService(authRepo, revoker, cfg.JWTSecret, cfg.TokenTTL)
	sink := metrics.FailureSink{}

	return Dependencies{
		Sessions:  service.NewSessionStores(authService, profileRepo, sink, log),
		Dashboard: service.NewDashboardService(bookRepo, profileRepo, log),
		Cookies: cookie.NewTokenStore(cookie.Options{
			Name:   cfg.Cookie.Name,
			Secret: []byte(cfg.Cookie.Secret),
			Secure: cfg.Cookie.Secure,
			MaxAge: cfg.TokenTTL,
		}),
		Sink: sink,
		Checks: map[string]handler.Check{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Log: log,
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()
	e.Renderer = view.NewRenderer()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "librarydesk",
		Registerer: deps.Registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	authPages := handler.NewAuthPageHandler(deps.Sessions, deps.Cookies)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard, deps.Sink)
	catalogHandler := handler.NewCatalogHandler(deps.Dashboard, deps.Sink)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Pages ---
	csrf := echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
	})
	e.GET("/", dashboardHandler.Home)
	e.GET(loginPath, authPages.Show, csrf)
	e.POST(loginPath+"/login", authPages.Login, csrf)
	e.POST(loginPath+"/register", authPages.Register, csrf)
	e.POST(loginPath+"/logout", authPages.Logout, csrf)

	dash := e.Group("/dashboard", csrf, middleware.Shell(deps.Sessions, deps.Cookies, loginPath))
	dash.GET("", dashboardHandler.Dashboard)
	dash.GET("/books", dashboardHandler.Books)
	dash.GET("/users", dashboardHandler.Users)
	dash.GET("/fines", dashboardHandler.Fines)
	dash.GET("/reports", dashboardHandler.Reports)

	// --- JSON API ---
	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	bearer := middleware.Auth(deps.Sessions)
	v1.POST("/auth/logout", authHandler.Logout, bearer)
	v1.GET("/session", catalogHandler.Session, bearer)
	v1.GET("/profile", catalogHandler.Profile, bearer)
	v1.GET("/books", catalogHandler.Books, bearer)
	v1.GET("/users", catalogHandler.Users, bearer, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/health")
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
