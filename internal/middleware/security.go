package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SecurityHeaders middleware adds security-related HTTP headers.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			// Prevent clickjacking
			h.Set("X-Frame-Options", "SAMEORIGIN")

			// Prevent MIME-type sniffing
			h.Set("X-Content-Type-Options", "nosniff")

			// Enable XSS filter in browsers
			h.Set("X-XSS-Protection", "1; mode=block")

			// Control referrer information
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Permissions policy (formerly Feature-Policy)
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")

			// Drive previews are embedded as iframes and gallery images come from Drive or any HTTPS host
			csp := strings.Join([]string{
				"default-src 'self'",
				"script-src 'self' 'unsafe-inline'",
				"style-src 'self' 'unsafe-inline'",
				"img-src 'self' data: https:",
				"frame-src https://drive.google.com",
				"connect-src 'self'",
				"frame-ancestors 'self'",
				"base-uri 'self'",
				"form-action 'self'",
			}, "; ")
			h.Set("Content-Security-Policy", csp)

			return next(c)
		}
	}
}

// CSRF provides Cross-Site Request Forgery protection.
type CSRF struct {
	sessionManager *SessionManager
	logger         *zap.Logger
	tokenLength    int
}

// NewCSRF creates a new CSRF protection middleware.
func NewCSRF(sm *SessionManager, logger *zap.Logger) *CSRF {
	return &CSRF{
		sessionManager: sm,
		logger:         logger,
		tokenLength:    32,
	}
}

// Middleware returns the CSRF middleware function.
func (csrf *CSRF) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// The JSON API authenticates with bearer tokens, not cookies
			if strings.HasPrefix(c.Request().URL.Path, "/api/") {
				return next(c)
			}

			// Skip CSRF for safe methods
			if isSafeMethod(c.Request().Method) {
				// Generate token for forms
				token, err := csrf.getOrCreateToken(c)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate CSRF token")
				}
				c.Set("csrf_token", token)
				return next(c)
			}

			// Validate CSRF token for unsafe methods
			session, err := csrf.sessionManager.GetSession(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid session")
			}

			expectedToken, ok := session.Values["csrf_token"].(string)
			if !ok || expectedToken == "" {
				return echo.NewHTTPError(http.StatusForbidden, "CSRF token missing from session")
			}

			// Check token from header first, then form
			actualToken := c.Request().Header.Get("X-CSRF-Token")
			if actualToken == "" {
				actualToken = c.FormValue("csrf_token")
			}

			if actualToken == "" {
				return echo.NewHTTPError(http.StatusForbidden, "CSRF token missing from request")
			}

			// Constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(expectedToken), []byte(actualToken)) != 1 {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid CSRF token")
			}

			// Tokens are per session and not rotated per request
			c.Set("csrf_token", expectedToken)

			return next(c)
		}
	}
}

// getOrCreateToken retrieves or creates a CSRF token.
func (csrf *CSRF) getOrCreateToken(c echo.Context) (string, error) {
	session, err := csrf.sessionManager.GetSession(c)
	if err != nil {
		// Log the error but try to continue with a new session
		csrf.logger.Warn("failed to get session for CSRF", zap.Error(err))
		// Generate a token anyway for this request
		return csrf.generateToken()
	}

	token, ok := session.Values["csrf_token"].(string)
	if !ok || token == "" {
		token, err = csrf.generateToken()
		if err != nil {
			return "", err
		}
		session.Values["csrf_token"] = token
		if err := session.Save(c.Request(), c.Response()); err != nil {
			// The token can still be used for this request
			csrf.logger.Warn("failed to save session with CSRF token", zap.Error(err))
		}
	}

	return token, nil
}

// generateToken creates a cryptographically secure random token.
func (csrf *CSRF) generateToken() (string, error) {
	bytes := make([]byte, csrf.tokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// isSafeMethod returns true for HTTP methods that don't modify state.
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// GetCSRFToken retrieves the CSRF token from context.
func GetCSRFToken(c echo.Context) string {
	token, ok := c.Get("csrf_token").(string)
	if !ok {
		return ""
	}
	return token
}
