package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rudzz/marketplace-api/internal/auth"
	"github.com/rudzz/marketplace-api/internal/config"
	"github.com/rudzz/marketplace-api/internal/handler"
	"github.com/rudzz/marketplace-api/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Appointments *handler.AppointmentHandler
	Reviews      *handler.ReviewHandler
	Services     *handler.ServiceHandler
	Profile      *handler.ProfileHandler
	Stats        *handler.StatsHandler
}

// Register mounts all routes. Unauthenticated auth operations live under
// /v1/auth behind the rate limiter; everything owned-resource lives under
// /v1/provider behind the bearer-token authorizer — that group's
// middleware is the single gate every scoped operation passes through.
func Register(e *echo.Echo, h Handlers, tokens *auth.TokenService, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	ag := e.Group("/v1/auth")
	ag.Use(middleware.RateLimit(rlCfg, rdb))
	ag.POST("/register", h.Auth.Register)
	ag.POST("/login", h.Auth.Login)
	ag.POST("/logout", h.Auth.Logout)

	pg := e.Group("/v1/provider")
	pg.Use(middleware.ProviderAuth(tokens))

	pg.GET("/appointments", h.Appointments.List)
	pg.GET("/appointments/:id", h.Appointments.Get)
	pg.PUT("/appointments/:id", h.Appointments.Update)

	pg.GET("/reviews", h.Reviews.List)
	pg.GET("/reviews/:id", h.Reviews.Get)

	pg.GET("/services", h.Services.List)
	pg.POST("/services", h.Services.Create)
	pg.GET("/services/:id", h.Services.Get)
	pg.PUT("/services/:id", h.Services.Update)
	pg.DELETE("/services/:id", h.Services.Delete)

	pg.GET("/profile", h.Profile.Get)
	pg.PUT("/profile", h.Profile.Update)

	pg.GET("/stats", h.Stats.Dashboard)
	pg.GET("/stats/performance", h.Stats.Performance)
}
