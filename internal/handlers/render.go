package handlers

import (
	"bytes"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// render buffers a templ component and writes it with the given status.
// A component that fails halfway leaves the response uncommitted so the
// error handler can still redirect.
func render(c echo.Context, status int, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	if strings.HasPrefix(c.Request().URL.Path, "/admin") {
		c.Response().Header().Set("Cache-Control", "no-store")
	}
	return c.HTMLBlob(status, buf.Bytes())
}
