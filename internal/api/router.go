package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/loginbox/auth-api/internal/api/handler"
	"github.com/loginbox/auth-api/internal/api/middleware"
	"github.com/loginbox/auth-api/internal/core/password"
	"github.com/loginbox/auth-api/internal/core/ports"
	"github.com/loginbox/auth-api/internal/core/service"
	"github.com/loginbox/auth-api/internal/core/token"
	"github.com/loginbox/auth-api/internal/infrastructure/config"
	"github.com/loginbox/auth-api/internal/infrastructure/db/postgres"
	redisinfra "github.com/loginbox/auth-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *redisclient.Client, recorder ports.LoginRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
	}))
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	userRepo := postgres.NewUserRepository(pool)
	cache := redisinfra.NewProfileCache(rdb, log)
	authService := service.NewAuthService(userRepo, password.NewBcryptHasher(password.Cost), tokens, cache, recorder)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(authService)
	authMiddleware := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/verify", authHandler.Verify, authMiddleware)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/auth/profile", profileHandler.Get, authMiddleware)
	e.PUT("/auth/profile", profileHandler.Update, authMiddleware)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
