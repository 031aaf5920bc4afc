package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminCounter reports whether any admin account exists.
type AdminCounter interface {
	HasAnyAdmins(ctx context.Context) (bool, error)
}

// SetupRequired redirects every page to /setup until the first admin account exists.
// Once an account is seen the check is skipped for the lifetime of the process.
// A failed lookup lets the request through and is checked again next time.
func SetupRequired(admins AdminCounter, logger *zap.Logger) echo.MiddlewareFunc {
	var done atomic.Bool

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if done.Load() {
				return next(c)
			}

			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/static/") ||
				strings.HasPrefix(path, "/setup") ||
				strings.HasPrefix(path, "/api/") ||
				path == "/health" || path == "/metrics" {
				return next(c)
			}

			has, err := admins.HasAnyAdmins(c.Request().Context())
			if err != nil {
				logger.Warn("setup check failed", zap.Error(err), zap.String("request_id", GetRequestID(c)))
				return next(c)
			}
			if !has {
				return c.Redirect(http.StatusSeeOther, "/setup")
			}

			done.Store(true)
			return next(c)
		}
	}
}
