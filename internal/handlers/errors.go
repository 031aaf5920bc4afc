package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"college/internal/middleware"
)

// ErrorHandler returns the echo HTTP error handler.
// API requests get a JSON body. HTML requests never see an error page: 403 goes back to the
// dashboard with a flash, everything else redirects to the home page.
func (h *Handlers) ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal Server Error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}

		if code >= http.StatusInternalServerError {
			h.logger.Error("request error",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err),
			)
		}

		if wantsJSON(c) {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, map[string]interface{}{
					"error": message,
					"code":  code,
				})
			}
			if err != nil {
				h.logger.Warn("failed to write error response", zap.Error(err))
			}
			return
		}

		target := "/"
		if code == http.StatusForbidden && middleware.GetUser(c) != nil {
			h.setFlash(c, "error", "You do not have permission to access that page.")
			target = "/admin/dashboard"
		}
		if err := c.Redirect(http.StatusSeeOther, target); err != nil {
			h.logger.Warn("failed to write error redirect", zap.Error(err))
		}
	}
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	return strings.HasPrefix(req.URL.Path, "/api/") ||
		strings.HasPrefix(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
