package middleware

import (
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger logs HTTP requests with timing and user info.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			fields := []zap.Field{
				zap.String("request_id", GetRequestID(c)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if req.URL.RawQuery != "" {
				fields = append(fields, zap.String("query", req.URL.RawQuery))
			}
			if user := GetUser(c); user != nil {
				fields = append(fields, zap.String("user", user.Username))
			}

			level := zapcore.InfoLevel
			switch {
			case status >= 500:
				level = zapcore.ErrorLevel
			case status >= 400:
				level = zapcore.WarnLevel
			}
			logger.Log(level, "request", fields...)

			return err
		}
	}
}

// RecoveryMiddleware recovers from panics and logs them.
func RecoveryMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, 4<<10)
					stack = stack[:runtime.Stack(stack, false)]

					logger.Error("panic recovered",
						zap.String("request_id", GetRequestID(c)),
						zap.String("method", c.Request().Method),
						zap.String("path", c.Request().URL.Path),
						zap.Any("panic", r),
						zap.ByteString("stack", stack),
					)

					err = echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
				}
			}()

			return next(c)
		}
	}
}
