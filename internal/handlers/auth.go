package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"college/internal/middleware"
	"college/internal/services"
	"college/internal/views"
)

// LoginForm renders the login page.
func (h *Handlers) LoginForm(c echo.Context) error {
	data := views.LoginData{
		PageData: h.basePageData(c, "Login", ""),
		Next:     c.QueryParam("next"),
	}
	return render(c, http.StatusOK, views.Login(data))
}

// Login handles the login form submission.
func (h *Handlers) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	next := c.FormValue("next")

	fail := func(status int, msg string) error {
		return render(c, status, views.Login(views.LoginData{
			PageData: h.basePageData(c, "Login", ""),
			Error:    msg,
			Next:     next,
			Username: username,
		}))
	}

	// Rate limiting check
	clientIP := c.RealIP()
	allowed, remaining := h.loginLimiter.Check(clientIP)
	if !allowed {
		return fail(http.StatusTooManyRequests, "Too many login attempts. Please try again in "+formatDuration(remaining)+".")
	}

	if username == "" || password == "" {
		return fail(http.StatusBadRequest, "Username and password are required.")
	}

	user, err := h.authService.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		h.loginLimiter.RecordFailure(clientIP)
		if !errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.Error("authentication failed", zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		}
		return fail(http.StatusUnauthorized, "Invalid username or password.")
	}

	h.loginLimiter.RecordSuccess(clientIP)

	if err := h.sessionManager.SetUserID(c, user.ID); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
		return fail(http.StatusInternalServerError, "Failed to create session. Please try again.")
	}

	h.logger.Info("admin signed in", zap.String("username", user.Username), zap.String("ip", clientIP))

	redirectURL := "/admin/dashboard"
	if next != "" && isValidRedirect(next) {
		redirectURL = next
	}
	h.setFlash(c, "success", "Welcome back, "+user.Name+".")
	return c.Redirect(http.StatusSeeOther, redirectURL)
}

// Logout handles user logout.
func (h *Handlers) Logout(c echo.Context) error {
	if err := h.sessionManager.ClearSession(c); err != nil {
		h.logger.Warn("failed to clear session", zap.Error(err))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// isValidRedirect checks that a post-login redirect stays inside the admin area.
func isValidRedirect(rawURL string) bool {
	// Only allow relative URLs starting with /
	if !strings.HasPrefix(rawURL, "/") {
		return false
	}

	// Prevent open redirect via protocol-relative URLs
	if strings.HasPrefix(rawURL, "//") {
		return false
	}

	// Ensure path doesn't contain backslashes (Windows path tricks)
	if strings.Contains(rawURL, "\\") {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "" || parsed.Host != "" {
		return false
	}

	if !strings.HasPrefix(parsed.Path, "/admin") {
		return false
	}

	// Prevent redirect to login/logout to avoid loops
	if parsed.Path == "/admin/login" || parsed.Path == "/admin/logout" {
		return false
	}

	return true
}

// formatDuration renders a lockout duration rounded up to whole minutes.
func formatDuration(d time.Duration) string {
	minutes := int((d + time.Minute - 1) / time.Minute)
	if minutes <= 1 {
		return "1 minute"
	}
	return strconv.Itoa(minutes) + " minutes"
}
