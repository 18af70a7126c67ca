package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-admin/docs"
	"github.com/99minutos/user-admin/internal/api/handler"
	"github.com/99minutos/user-admin/internal/api/middleware"
	"github.com/99minutos/user-admin/internal/core/ports"
)

// Dependencies carries everything the router needs to serve requests.
type Dependencies struct {
	Users     ports.UserService
	Sessions  ports.SessionResolver
	JWTSecret string
	Logger    zerolog.Logger
	Checks    []handler.DependencyCheck

	// Registry receives the HTTP metrics and serves /metrics. Nil means the
	// Prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "user_admin",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational routes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- User administration ---
	userHandler := handler.NewUserHandler(deps.Users)

	users := e.Group("/users", middleware.Auth(deps.JWTSecret, deps.Sessions))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/info", userHandler.Info)
	users.POST("/checkPass", userHandler.CheckPassword)
	users.POST("/updatePassword", userHandler.UpdatePassword)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.UpdateContact)
	users.DELETE("/:id", userHandler.Delete)
	users.PUT("/:id/state/:state", userHandler.SetState)
	users.PUT("/:id/role", userHandler.UpdateRole)

	return e
}
