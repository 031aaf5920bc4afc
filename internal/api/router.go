package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"college/internal/config"
	"college/internal/middleware"
	"college/internal/models"
	"college/internal/services"
)

// Services bundles the services the API reads from.
type Services struct {
	Auth       *services.AuthService
	Content    *services.ContentService
	Markdown   *services.MarkdownService
	Aggregator *services.Aggregator
}

// RegisterRoutes registers all API routes under /api/v1.
// The returned limiter tracks failed authentications and must be stopped on shutdown.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, logger *zap.Logger, svc Services) *middleware.LoginRateLimiter {
	limiter := middleware.NewLoginRateLimiter(cfg.Security.LoginMaxAttempts, cfg.Security.LoginLockoutTime)
	h := NewHandlers(cfg, logger, svc, limiter)
	jwtMiddleware := NewJWTMiddleware(svc.Auth, cfg.Security.SecretKey, limiter)

	api := e.Group("/api/v1")

	// Public routes (no auth required)
	api.POST("/auth/login", h.Login)
	api.GET("/notices", h.ListNotices)
	api.GET("/books", h.ListBooks)
	api.GET("/results", h.ListResults)
	api.GET("/courses", h.ListCourses)

	// Protected routes
	auth := jwtMiddleware.Middleware()
	api.POST("/auth/refresh", h.RefreshToken, auth)
	api.GET("/me", h.GetCurrentUser, auth)

	staff := RequireRole(models.RoleTeacher)
	api.GET("/admin/stats", h.Stats, auth, staff)
	api.GET("/admin/analytics", h.Analytics, auth, staff)

	return limiter
}
