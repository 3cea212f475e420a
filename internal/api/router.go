package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/99minutos/backoffice-api/internal/api/handler"
	"github.com/99minutos/backoffice-api/internal/api/middleware"
	"github.com/99minutos/backoffice-api/internal/core/domain"
	"github.com/99minutos/backoffice-api/internal/core/ports"
	"github.com/99minutos/backoffice-api/internal/infrastructure/http/handlers"
)

const defaultLoginRate = 5

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Log       zerolog.Logger
	Tokens    middleware.TokenDecoder
	Auth      ports.AuthService
	Users     ports.UserService
	Roles     ports.RoleService
	Merchants ports.MerchantService
	Checks    []handlers.DependencyCheck
	Version   string
	// LoginRate is the sustained login requests per second allowed per IP.
	LoginRate float64
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

var (
	allRoles      = domain.AllRoleKinds()
	staffRoles    = []domain.RoleKind{domain.RoleAdmin, domain.RoleSupport, domain.RoleRisk, domain.RoleFinance}
	adminOnly     = []domain.RoleKind{domain.RoleAdmin}
	merchantAdmin = []domain.RoleKind{domain.RoleAdmin, domain.RoleRisk}
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "backoffice",
		Subsystem:  "http",
		Registerer: deps.Registerer,
	}))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler(deps.Version)
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))

	v1 := e.Group("/api/v1")
	secure := func(kinds ...domain.RoleKind) []echo.MiddlewareFunc {
		return middleware.Secure(deps.Tokens, kinds...)
	}

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	v1.POST("/auth/login", authHandler.Login, loginRateLimiter(deps.LoginRate))

	// --- Users ---
	userHandler := handler.NewUserHandler(deps.Users)
	v1.GET("/user", userHandler.List, secure(allRoles...)...)
	v1.GET("/user/me", userHandler.Me, secure(allRoles...)...)
	v1.GET("/user/:id", userHandler.Get, secure(allRoles...)...)
	v1.POST("/user", userHandler.Create, secure(adminOnly...)...)
	v1.PATCH("/user/:id", userHandler.Update, secure(adminOnly...)...)
	v1.DELETE("/user/:id", userHandler.Delete, secure(adminOnly...)...)

	// --- Roles ---
	roleHandler := handler.NewRoleHandler(deps.Roles)
	v1.GET("/roles", roleHandler.List, secure(allRoles...)...)

	// --- Merchants ---
	merchantHandler := handler.NewMerchantHandler(deps.Merchants)
	v1.GET("/merchant", merchantHandler.List, secure(staffRoles...)...)
	v1.GET("/merchant/:id", merchantHandler.Get, secure(staffRoles...)...)
	v1.POST("/merchant", merchantHandler.Create, secure(adminOnly...)...)
	v1.PATCH("/merchant/:id/status", merchantHandler.ChangeStatus, secure(merchantAdmin...)...)
	v1.POST("/merchant/:id/site", merchantHandler.CreateSite, secure(adminOnly...)...)

	return e
}

// loginRateLimiter throttles login attempts per client IP.
func loginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		perSecond = defaultLoginRate
	}
	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})
}
