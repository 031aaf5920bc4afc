package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"college/internal/models"
)

// VisitRecorder stores page visits.
type VisitRecorder interface {
	Record(ctx context.Context, page models.Page, ip, userAgent string, now time.Time)
}

// TrackVisit records a visit to page once the route handler has served it successfully.
func TrackVisit(recorder VisitRecorder, page models.Page) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status >= http.StatusBadRequest {
				return nil
			}
			req := c.Request()
			recorder.Record(req.Context(), page, c.RealIP(), req.UserAgent(), time.Now())
			return nil
		}
	}
}
