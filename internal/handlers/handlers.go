package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"college/internal/config"
	"college/internal/middleware"
	"college/internal/models"
	"college/internal/services"
	"college/internal/views"
)

// HealthChecker pings the backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Services bundles the application services used by the handlers.
type Services struct {
	Content    *services.ContentService
	Auth       *services.AuthService
	Settings   *services.SettingsService
	Markdown   *services.MarkdownService
	Tracker    middleware.VisitRecorder
	Aggregator *services.Aggregator
	Health     HealthChecker
}

// Handlers contains all HTTP request handlers.
type Handlers struct {
	config         *config.Config
	logger         *zap.Logger
	content        *services.ContentService
	authService    *services.AuthService
	settings       *services.SettingsService
	markdown       *services.MarkdownService
	tracker        middleware.VisitRecorder
	aggregator     *services.Aggregator
	health         HealthChecker
	sessionManager *middleware.SessionManager
	loginLimiter   *middleware.LoginRateLimiter
}

// New creates a new Handlers instance.
func New(cfg *config.Config, logger *zap.Logger, svc Services, sessionManager *middleware.SessionManager) *Handlers {
	return &Handlers{
		config:         cfg,
		logger:         logger,
		content:        svc.Content,
		authService:    svc.Auth,
		settings:       svc.Settings,
		markdown:       svc.Markdown,
		tracker:        svc.Tracker,
		aggregator:     svc.Aggregator,
		health:         svc.Health,
		sessionManager: sessionManager,
		loginLimiter:   middleware.NewLoginRateLimiter(cfg.Security.LoginMaxAttempts, cfg.Security.LoginLockoutTime),
	}
}

// Close stops background cleanup owned by the handlers.
func (h *Handlers) Close() {
	h.loginLimiter.Stop()
}

// basePageData creates the common page data structure.
func (h *Handlers) basePageData(c echo.Context, title, activeNav string) views.PageData {
	flash := views.FlashMessages{
		Success: h.sessionManager.GetFlash(c, "success"),
		Error:   h.sessionManager.GetFlash(c, "error"),
		Info:    h.sessionManager.GetFlash(c, "info"),
	}

	return views.PageData{
		Title:     title,
		Settings:  h.settings.All(c.Request().Context()),
		User:      middleware.GetUser(c),
		CSRFToken: middleware.GetCSRFToken(c),
		Flash:     flash,
		ActiveNav: activeNav,
	}
}

// setFlash sets a flash message.
func (h *Handlers) setFlash(c echo.Context, key, message string) {
	if err := h.sessionManager.SetFlash(c, key, message); err != nil {
		h.logger.Warn("failed to set flash", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
	}
}

// RegisterRoutes registers all HTML routes.
func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	// Setup and health are always reachable
	e.GET("/setup", h.SetupPage)
	e.POST("/setup", h.SetupSubmit)
	e.GET("/health", h.HealthCheck)

	// Public pages, each GET counts one visit
	track := func(page models.Page) echo.MiddlewareFunc {
		return middleware.TrackVisit(h.tracker, page)
	}
	e.GET("/", h.Home, track(models.PageHome))
	e.GET("/about", h.About, track(models.PageAbout))
	e.GET("/courses", h.Courses, track(models.PageCourses))
	e.GET("/faculty", h.Faculty, track(models.PageFaculty))
	e.GET("/library", h.Library, track(models.PageLibrary))
	e.GET("/results", h.Results, track(models.PageResults))
	e.GET("/gallery", h.Gallery, track(models.PageGallery))
	e.GET("/notices", h.Notices, track(models.PageNotices))
	e.GET("/contact", h.Contact, track(models.PageContact))
	e.POST("/contact", h.ContactSubmit)

	// Admin routes, role checks attached per route
	admin := e.Group("/admin")
	admin.GET("/login", h.LoginForm, middleware.RequireNoAuth())
	admin.POST("/login", h.Login, middleware.RequireNoAuth())
	admin.POST("/logout", h.Logout, middleware.RequireAuth())

	// Content management (teacher role and above)
	staff := middleware.RequireRole(models.RoleTeacher)
	admin.GET("", h.AdminIndex, staff)
	admin.GET("/dashboard", h.AdminDashboard, staff)
	for _, s := range contentSections {
		admin.GET("/"+s.name, h.ManageSection(s), staff)
		admin.POST("/"+s.name+"/add", h.AddToSection(s), staff)
		admin.POST("/"+s.name+"/:id/deactivate", h.DeactivateInSection(s), staff)
	}
	admin.GET("/messages", h.AdminMessages, staff)
	admin.POST("/messages/:id/read", h.AdminMarkMessageRead, staff)
	admin.GET("/analytics", h.AdminAnalytics, staff)

	// Accounts and settings (admin role)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	admin.GET("/users", h.AdminListUsers, adminOnly)
	admin.POST("/users/add", h.AdminCreateUser, adminOnly)
	admin.POST("/users/:id/delete", h.AdminDeleteUser, adminOnly)
	admin.GET("/settings", h.AdminSettings, adminOnly)
	admin.POST("/settings", h.AdminUpdateSettings, adminOnly)
}

// HealthCheck reports whether the database is reachable.
func (h *Handlers) HealthCheck(c echo.Context) error {
	if err := h.health.HealthCheck(c.Request().Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
