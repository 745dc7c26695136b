package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/companyhub/companies-api/docs"
	"github.com/companyhub/companies-api/internal/api/handler"
	"github.com/companyhub/companies-api/internal/api/middleware"
	"github.com/companyhub/companies-api/internal/core/ports"
	"github.com/companyhub/companies-api/internal/core/service"
	mongorepo "github.com/companyhub/companies-api/internal/infrastructure/db/mongo"
	redisstore "github.com/companyhub/companies-api/internal/infrastructure/db/redis"
	"github.com/companyhub/companies-api/internal/pkg/config"
	"github.com/companyhub/companies-api/internal/validation"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Companies ports.CompanyService
	Users     ports.UserService
	Auth      ports.AuthService
	Checks    []handler.DependencyCheck
	Logger    zerolog.Logger

	// Registerer and Gatherer back the HTTP request metrics and /metrics.
	// Nil values fall back to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter wires the MongoDB and Redis backed services and returns the Echo
// instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	v := validation.New()

	companyRepo := mongorepo.NewCompanyRepository(db)
	userRepo := mongorepo.NewUserRepository(db)
	revocations := redisstore.NewRevocationStore(rdb)

	return NewEcho(Dependencies{
		Companies: service.NewCompanyService(companyRepo, v, log),
		Users:     service.NewUserService(userRepo),
		Auth:      service.NewAuthService(userRepo, revocations, v, log, cfg.JWTSecret, cfg.TokenTTL),
		Checks: []handler.DependencyCheck{
			handler.MongoCheck(db),
			handler.RedisCheck(rdb),
		},
		Logger: log,
	})
}

// NewEcho builds the Echo instance from already constructed services.
func NewEcho(deps Dependencies) *echo.Echo {
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "companies",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	companyHandler := handler.NewCompanyHandler(deps.Companies)
	userHandler := handler.NewUserHandler(deps.Users)
	authHandler := handler.NewAuthHandler(deps.Auth)
	requireAuth := middleware.Auth(deps.Auth)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- Resource routes (authenticated) ---
	companies := e.Group("/companies", requireAuth)
	companies.GET("", companyHandler.List)
	companies.POST("", companyHandler.Create)
	companies.GET("/:id", companyHandler.Get)
	companies.PUT("/:id", companyHandler.Update)
	companies.DELETE("/:id", companyHandler.Delete)

	users := e.Group("/users", requireAuth)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog line per request. With HandleError set, a
// handler error is passed to the error handler before the values are
// collected, so the logged status is the one written to the client.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogError:     true,
		LogLatency:   true,
		LogMethod:    true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
			}

			if userID, ok := c.Get(middleware.UserIDKey).(string); ok && userID != "" {
				ev = ev.Str("user_id", userID)
			}

			ev.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
