package api

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"time"
	"user-management-service/internal/config"
	"user-management-service/internal/service"
)

const serviceName = "user-management-service"

// NewRouter builds the echo instance with middleware and all routes.
func NewRouter(h *UserHandler, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig(cfg)))
	}

	// Routes
	e.POST("/users", h.CreateUser)
	e.GET("/users", h.ListUsers)
	e.POST("/users/login", h.Login)
	e.GET("/users/:id", h.GetUserByID)
	e.GET("/users/exists/:username", h.UserExists)
	e.GET("/user", h.GetUserByUsername)

	if cfg.JWTSecret != "" {
		e.GET("/users/session", h.ValidateSession, echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(service.JwtCustomClaims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(401, map[string]string{"error": "Unauthorized"})
			},
		}))
	} else {
		e.GET("/users/session", func(c echo.Context) error {
			return c.JSON(401, map[string]string{"error": "sessions are disabled"})
		})
	}

	e.GET("/users/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": serviceName,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	return e
}

func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     cfg.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}
}
