package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"college/internal/models"
	"college/internal/services"
	"college/internal/views"
)

// SetupPage renders the first-run page that creates the initial admin.
func (h *Handlers) SetupPage(c echo.Context) error {
	// Redirect away if setup is already complete
	if h.setupDone(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	return render(c, http.StatusOK, views.Setup(views.SetupData{
		PageData: h.basePageData(c, "Setup", ""),
	}))
}

// SetupSubmit creates the initial admin account.
func (h *Handlers) SetupSubmit(c echo.Context) error {
	if h.setupDone(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	fail := func(msg string) error {
		return render(c, http.StatusBadRequest, views.Setup(views.SetupData{
			PageData: h.basePageData(c, "Setup", ""),
			Error:    msg,
			Username: username,
			Name:     name,
		}))
	}

	if password != c.FormValue("password_confirm") {
		return fail("Passwords do not match.")
	}

	_, err := h.authService.CreateInitialAdmin(c.Request().Context(), models.AdminCreate{
		Username: username,
		Password: password,
		Name:     name,
	})
	switch {
	case err == nil:
	case errors.Is(err, services.ErrSetupComplete):
		return c.Redirect(http.StatusSeeOther, "/admin/login")
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidPassword):
		return fail(err.Error())
	default:
		h.logger.Error("initial admin creation failed", zap.Error(err))
		return fail("Failed to complete setup. Please try again.")
	}

	h.setFlash(c, "success", "Setup complete. Please sign in.")
	return c.Redirect(http.StatusSeeOther, "/admin/login")
}

func (h *Handlers) setupDone(c echo.Context) bool {
	has, err := h.authService.HasAnyAdmins(c.Request().Context())
	if err != nil {
		h.logger.Warn("failed to count admins", zap.Error(err))
		return false
	}
	return has
}
