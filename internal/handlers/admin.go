package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"college/internal/middleware"
	"college/internal/models"
	"college/internal/services"
	"college/internal/views"
)

const dashboardMessageLimit = 5

// AdminIndex sends /admin to the dashboard.
func (h *Handlers) AdminIndex(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// AdminDashboard renders content counts, visitor totals and recent messages.
func (h *Handlers) AdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	data := views.DashboardData{
		PageData: h.basePageData(c, "Dashboard", "dashboard"),
		Stats:    h.content.Stats(ctx),
	}

	if summary, err := h.aggregator.Summary(ctx, time.Now()); err != nil {
		h.logger.Warn("failed to load visitor summary", zap.Error(err))
	} else {
		data.VisitorsToday = summary.Today
		data.VisitorsTotal = summary.Total
	}

	messages, err := h.content.RecentMessages(ctx, dashboardMessageLimit)
	if err != nil {
		h.logger.Warn("failed to load recent messages", zap.Error(err))
	}
	data.RecentMessages = messages

	return render(c, http.StatusOK, views.Dashboard(data))
}

// ManageSection renders the management page of one content type.
func (h *Handlers) ManageSection(s contentSection) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := s.rows(c.Request().Context(), h.content)
		if err != nil {
			h.logger.Warn("failed to list content", zap.String("section", s.name), zap.Error(err))
		}

		return render(c, http.StatusOK, views.ManageContent(views.ManageData{
			PageData: h.basePageData(c, s.heading, s.name),
			Section:  s.name,
			Heading:  s.heading,
			Fields:   s.fields,
			Columns:  s.columns,
			Rows:     rows,
		}))
	}
}

// AddToSection creates a record of one content type from the submitted form.
func (h *Handlers) AddToSection(s contentSection) echo.HandlerFunc {
	return func(c echo.Context) error {
		back := "/admin/" + s.name
		user := middleware.GetUser(c)

		if err := s.add(c, h.content, user.Name); err != nil {
			h.flashError(c, err)
			return c.Redirect(http.StatusSeeOther, back)
		}

		h.logAdminAction(c, "content_add", s.name, nil)
		h.setFlash(c, "success", s.singular+" added successfully.")
		return c.Redirect(http.StatusSeeOther, back)
	}
}

// DeactivateInSection hides a record of one content type from the public pages.
func (h *Handlers) DeactivateInSection(s contentSection) echo.HandlerFunc {
	return func(c echo.Context) error {
		back := "/admin/" + s.name

		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			h.setFlash(c, "error", "Invalid ID.")
			return c.Redirect(http.StatusSeeOther, back)
		}

		if err := s.deactivate(c.Request().Context(), h.content, id); err != nil {
			h.flashError(c, err)
			return c.Redirect(http.StatusSeeOther, back)
		}

		h.logAdminAction(c, "content_deactivate", s.name, &id)
		h.setFlash(c, "success", s.singular+" deactivated.")
		return c.Redirect(http.StatusSeeOther, back)
	}
}

// AdminMessages renders the contact inbox.
func (h *Handlers) AdminMessages(c echo.Context) error {
	messages, err := h.content.ListMessages(c.Request().Context())
	if err != nil {
		h.logger.Warn("failed to list messages", zap.Error(err))
	}

	return render(c, http.StatusOK, views.Messages(views.MessagesData{
		PageData: h.basePageData(c, "Messages", "messages"),
		Messages: messages,
	}))
}

// AdminMarkMessageRead marks a contact message as read.
func (h *Handlers) AdminMarkMessageRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.setFlash(c, "error", "Invalid ID.")
		return c.Redirect(http.StatusSeeOther, "/admin/messages")
	}

	if err := h.content.MarkMessageRead(c.Request().Context(), id); err != nil {
		h.flashError(c, err)
		return c.Redirect(http.StatusSeeOther, "/admin/messages")
	}

	h.setFlash(c, "success", "Message marked as read.")
	return c.Redirect(http.StatusSeeOther, "/admin/messages")
}

// AdminAnalytics renders the visitor analytics page.
func (h *Handlers) AdminAnalytics(c echo.Context) error {
	data := views.AnalyticsData{PageData: h.basePageData(c, "Analytics", "analytics")}

	summary, err := h.aggregator.Summary(c.Request().Context(), time.Now())
	if err != nil {
		h.logger.Warn("failed to load visitor summary", zap.Error(err))
	} else {
		data.Summary = *summary
	}

	return render(c, http.StatusOK, views.Analytics(data))
}

// AdminListUsers renders the account list.
func (h *Handlers) AdminListUsers(c echo.Context) error {
	admins, err := h.authService.ListAdmins(c.Request().Context())
	if err != nil {
		h.logger.Warn("failed to list accounts", zap.Error(err))
	}

	return render(c, http.StatusOK, views.Users(views.UsersData{
		PageData: h.basePageData(c, "Accounts", "users"),
		Admins:   admins,
	}))
}

// AdminCreateUser creates a new account.
func (h *Handlers) AdminCreateUser(c echo.Context) error {
	var in models.AdminCreate
	if err := c.Bind(&in); err != nil {
		h.setFlash(c, "error", "Invalid form submission.")
		return c.Redirect(http.StatusSeeOther, "/admin/users")
	}

	created, err := h.authService.CreateAdmin(c.Request().Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserExists):
			h.setFlash(c, "error", "Username already exists.")
		case errors.Is(err, services.ErrInvalidPassword):
			h.setFlash(c, "error", err.Error())
		default:
			h.flashError(c, err)
		}
		return c.Redirect(http.StatusSeeOther, "/admin/users")
	}

	h.logAdminAction(c, "user_create", "admin", &created.ID)
	h.setFlash(c, "success", "Account "+created.Username+" created.")
	return c.Redirect(http.StatusSeeOther, "/admin/users")
}

// AdminDeleteUser deletes an account other than the signed-in one.
func (h *Handlers) AdminDeleteUser(c echo.Context) error {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.setFlash(c, "error", "Invalid ID.")
		return c.Redirect(http.StatusSeeOther, "/admin/users")
	}

	user := middleware.GetUser(c)
	if err := h.authService.DeleteAdmin(c.Request().Context(), user.ID, targetID); err != nil {
		if errors.Is(err, services.ErrSelfDelete) {
			h.setFlash(c, "error", "You cannot delete your own account.")
		} else {
			h.flashError(c, err)
		}
		return c.Redirect(http.StatusSeeOther, "/admin/users")
	}

	h.logAdminAction(c, "user_delete", "admin", &targetID)
	h.setFlash(c, "success", "Account deleted.")
	return c.Redirect(http.StatusSeeOther, "/admin/users")
}

// AdminSettings renders the site settings form.
func (h *Handlers) AdminSettings(c echo.Context) error {
	return render(c, http.StatusOK, views.Settings(h.basePageData(c, "Settings", "settings")))
}

// AdminUpdateSettings saves the editable site settings.
func (h *Handlers) AdminUpdateSettings(c echo.Context) error {
	values := make(map[string]string, len(models.EditableSettings))
	for _, key := range models.EditableSettings {
		values[key] = c.FormValue(key)
	}

	if err := h.settings.Update(c.Request().Context(), values); err != nil {
		h.flashError(c, err)
		return c.Redirect(http.StatusSeeOther, "/admin/settings")
	}

	h.logAdminAction(c, "settings_update", "settings", nil)
	h.setFlash(c, "success", "Settings updated successfully.")
	return c.Redirect(http.StatusSeeOther, "/admin/settings")
}

// logAdminAction writes an audit line for an admin mutation.
func (h *Handlers) logAdminAction(c echo.Context, action, entityType string, entityID *int64) {
	user := middleware.GetUser(c)
	if user == nil {
		return
	}

	fields := []zap.Field{
		zap.String("action", action),
		zap.String("entity", entityType),
		zap.String("user", user.Username),
		zap.String("ip", c.RealIP()),
		zap.String("request_id", middleware.GetRequestID(c)),
	}
	if entityID != nil {
		fields = append(fields, zap.Int64("entity_id", *entityID))
	}
	h.logger.Info("admin action", fields...)
}
