package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"college/internal/config"
	"college/internal/middleware"
	"college/internal/models"
	"college/internal/services"
)

const (
	defaultSeriesDays = 30
	noticeListLimit   = 50
)

// Handlers contains all API request handlers.
type Handlers struct {
	config      *config.Config
	logger      *zap.Logger
	authService *services.AuthService
	content     *services.ContentService
	markdown    *services.MarkdownService
	aggregator  *services.Aggregator
	limiter     *middleware.LoginRateLimiter
}

// NewHandlers creates a new API handlers instance.
func NewHandlers(cfg *config.Config, logger *zap.Logger, svc Services, limiter *middleware.LoginRateLimiter) *Handlers {
	return &Handlers{
		config:      cfg,
		logger:      logger,
		authService: svc.Auth,
		content:     svc.Content,
		markdown:    svc.Markdown,
		aggregator:  svc.Aggregator,
		limiter:     limiter,
	}
}

// Response helpers

type successResponse struct {
	Data interface{} `json:"data"`
}

func success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, successResponse{Data: data})
}

// Auth handlers

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// TokenResponse is returned by a successful login or refresh.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login authenticates an account and returns a JWT.
func (h *Handlers) Login(c echo.Context) error {
	clientIP := c.RealIP()
	if allowed, _ := h.limiter.Check(clientIP); !allowed {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many failed authentication attempts")
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	user, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.Error("api authentication failed", zap.Error(err))
		}
		h.limiter.RecordFailure(clientIP)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	h.limiter.RecordSuccess(clientIP)

	return h.issueToken(c, user)
}

// RefreshToken issues a fresh token for the authenticated account.
func (h *Handlers) RefreshToken(c echo.Context) error {
	return h.issueToken(c, GetAPIUser(c))
}

func (h *Handlers) issueToken(c echo.Context, user *models.Admin) error {
	token, expiresAt, err := GenerateJWT(user, h.config.Security.SecretKey, h.config.Security.JWTExpiry, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate token")
	}

	return success(c, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	})
}

// GetCurrentUser returns the authenticated account.
func (h *Handlers) GetCurrentUser(c echo.Context) error {
	return success(c, GetAPIUser(c))
}

// Public content

// NoticeResponse is a notice with its rendered body.
type NoticeResponse struct {
	models.Notice
	HTML string `json:"html"`
}

// ListNotices returns the active notices, newest first.
func (h *Handlers) ListNotices(c echo.Context) error {
	notices, err := h.content.ListActiveNotices(c.Request().Context())
	if err != nil {
		return h.internalError(c, "failed to list notices", err)
	}
	if len(notices) > noticeListLimit {
		notices = notices[:noticeListLimit]
	}

	out := make([]NoticeResponse, 0, len(notices))
	for _, n := range notices {
		html, err := h.markdown.Render(n.Content)
		if err != nil {
			h.logger.Warn("failed to render notice", zap.Int64("notice_id", n.ID), zap.Error(err))
		}
		out = append(out, NoticeResponse{Notice: n, HTML: html})
	}
	return success(c, out)
}

// BookResponse is a book with its derived drive links.
type BookResponse struct {
	models.Book
	Links services.DocumentLinks `json:"links"`
}

// ListBooks returns the active books, filtered by subject, course, semester and search.
func (h *Handlers) ListBooks(c echo.Context) error {
	books, err := h.content.ListActiveBooks(c.Request().Context(), models.BookFilter{
		Subject:  c.QueryParam("subject"),
		Course:   c.QueryParam("course"),
		Semester: c.QueryParam("semester"),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return h.internalError(c, "failed to list books", err)
	}

	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, BookResponse{Book: b, Links: services.NormalizeDocumentLink(b.DriveLink)})
	}
	return success(c, out)
}

// ResultResponse is a result with its derived drive links.
type ResultResponse struct {
	models.Result
	Links services.DocumentLinks `json:"links"`
}

// ListResults returns the active results.
func (h *Handlers) ListResults(c echo.Context) error {
	results, err := h.content.ListActiveResults(c.Request().Context())
	if err != nil {
		return h.internalError(c, "failed to list results", err)
	}

	out := make([]ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, ResultResponse{Result: r, Links: services.NormalizeDocumentLink(r.DriveLink)})
	}
	return success(c, out)
}

// ListCourses returns the active courses.
func (h *Handlers) ListCourses(c echo.Context) error {
	courses, err := h.content.ListActiveCourses(c.Request().Context())
	if err != nil {
		return h.internalError(c, "failed to list courses", err)
	}
	return success(c, courses)
}

// Admin

// Stats returns the dashboard content counts.
func (h *Handlers) Stats(c echo.Context) error {
	return success(c, h.content.Stats(c.Request().Context()))
}

// AnalyticsResponse is the visitor summary with a daily series of the requested length.
type AnalyticsResponse struct {
	*models.VisitorSummary
	Series []models.DailyCount `json:"series"`
}

// Analytics returns the visitor rollups. The days query parameter sizes the daily series.
func (h *Handlers) Analytics(c echo.Context) error {
	days := defaultSeriesDays
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be an integer")
		}
		days = n
	}

	ctx := c.Request().Context()
	now := time.Now()

	summary, err := h.aggregator.Summary(ctx, now)
	if err != nil {
		return h.internalError(c, "failed to load visitor summary", err)
	}
	series, err := h.aggregator.DailySeries(ctx, now, days)
	if err != nil {
		return h.internalError(c, "failed to load visitor series", err)
	}

	return success(c, AnalyticsResponse{VisitorSummary: summary, Series: series})
}

func (h *Handlers) internalError(c echo.Context, msg string, err error) error {
	h.logger.Error(msg, zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}
