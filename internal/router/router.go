// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"  // Echo web framework
	"github.com/redis/go-redis/v9" // shared Redis client for middleware

	"github.com/partyloft/booking/internal/config"
	"github.com/partyloft/booking/internal/handler"
	"github.com/partyloft/booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// The health check and the payment webhook are the only endpoints
// outside the JWT surface; the webhook authenticates with its own
// body HMAC instead.
func RegisterRoutes(e *echo.Echo, webhook *handler.PaymentWebhookHandler) {
	e.GET("/healthz", handler.Health)
	e.POST("/v1/payments/webhook", webhook.Handle)
}

// RegisterEngine registers the tenant-facing engine endpoints under
// /v1.  All routes require a valid JWT carrying a tenant_id claim.
// The availability read path additionally gets the Redis response
// cache and the token-bucket rate limiter; both middlewares are
// no-ops when rdb is nil so the engine still serves without Redis.
func RegisterEngine(e *echo.Echo, av *handler.AvailabilityHandler, hd *handler.HoldHandler, bk *handler.BookingHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	// Availability is the hot read path; cache it briefly per tenant.
	g.GET("/availability", av.Get, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	g.POST("/holds", hd.Create)
	g.POST("/holds/:id/extend", hd.Extend)
	g.DELETE("/holds/:id", hd.Release)

	g.POST("/bookings", bk.Create)
	g.GET("/bookings", bk.List)
	g.GET("/bookings/:id", bk.Get)
	g.POST("/bookings/:id/complete", bk.Complete)
}
