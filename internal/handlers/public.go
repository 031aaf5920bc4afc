package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"college/internal/middleware"
	"college/internal/models"
	"college/internal/services"
	"college/internal/views"
)

const noticeExcerptLength = 180

// Home renders the landing page. Read failures render an empty page.
func (h *Handlers) Home(c echo.Context) error {
	data := views.HomeData{PageData: h.basePageData(c, "", string(models.PageHome))}

	home, err := h.content.Home(c.Request().Context())
	if err != nil {
		h.logger.Warn("failed to load home content", zap.Error(err))
	} else {
		data.Notices = h.noticeViews(home.Notices)
		data.Courses = home.Courses
		data.Gallery = home.Gallery
	}

	return render(c, http.StatusOK, views.Home(data))
}

// About renders the about page.
func (h *Handlers) About(c echo.Context) error {
	return render(c, http.StatusOK, views.About(h.basePageData(c, "About", string(models.PageAbout))))
}

// Courses renders the active courses.
func (h *Handlers) Courses(c echo.Context) error {
	courses, err := h.content.ListActiveCourses(c.Request().Context())
	if err != nil {
		h.logger.Warn("failed to list courses", zap.Error(err))
	}

	return render(c, http.StatusOK, views.Courses(views.CoursesData{
		PageData: h.basePageData(c, "Courses", string(models.PageCourses)),
		Courses:  courses,
	}))
}

// Faculty renders the active faculty profiles.
func (h *Handlers) Faculty(c echo.Context) error {
	ctx := c.Request().Context()
	faculty, err := h.content.ListActiveFaculty(ctx)
	if err != nil {
		h.logger.Warn("failed to list faculty", zap.Error(err))
	}
	departments, err := h.content.FacultyDepartments(ctx)
	if err != nil {
		h.logger.Warn("failed to list departments", zap.Error(err))
	}

	return render(c, http.StatusOK, views.Faculty(views.FacultyData{
		PageData:    h.basePageData(c, "Faculty", string(models.PageFaculty)),
		Faculty:     faculty,
		Departments: departments,
	}))
}

// Library renders the book catalogue, filtered by the query string.
func (h *Handlers) Library(c echo.Context) error {
	ctx := c.Request().Context()
	filter := models.BookFilter{
		Subject:  c.QueryParam("subject"),
		Course:   c.QueryParam("course"),
		Semester: c.QueryParam("semester"),
		Search:   c.QueryParam("search"),
	}

	books, err := h.content.ListActiveBooks(ctx, filter)
	if err != nil {
		h.logger.Warn("failed to list books", zap.Error(err))
	}
	subjects, courses, err := h.content.BookFacets(ctx)
	if err != nil {
		h.logger.Warn("failed to list book facets", zap.Error(err))
	}

	bookViews := make([]views.BookView, 0, len(books))
	for _, b := range books {
		bookViews = append(bookViews, views.BookView{Book: b, Links: services.NormalizeDocumentLink(b.DriveLink)})
	}

	return render(c, http.StatusOK, views.Library(views.LibraryData{
		PageData: h.basePageData(c, "Library", string(models.PageLibrary)),
		Books:    bookViews,
		Subjects: subjects,
		Courses:  courses,
		Filter:   filter,
	}))
}

// Results renders the published results.
func (h *Handlers) Results(c echo.Context) error {
	results, err := h.content.ListActiveResults(c.Request().Context())
	if err != nil {
		h.logger.Warn("failed to list results", zap.Error(err))
	}

	resultViews := make([]views.ResultView, 0, len(results))
	for _, r := range results {
		resultViews = append(resultViews, views.ResultView{Result: r, Links: services.NormalizeDocumentLink(r.DriveLink)})
	}

	return render(c, http.StatusOK, views.Results(views.ResultsData{
		PageData: h.basePageData(c, "Results", string(models.PageResults)),
		Results:  resultViews,
	}))
}

// Gallery renders the gallery, optionally narrowed to one category.
func (h *Handlers) Gallery(c echo.Context) error {
	ctx := c.Request().Context()
	category := c.QueryParam("category")

	images, err := h.content.ListActiveGallery(ctx, models.GalleryFilter{Category: category})
	if err != nil {
		h.logger.Warn("failed to list gallery", zap.Error(err))
	}
	categories, err := h.content.GalleryCategories(ctx)
	if err != nil {
		h.logger.Warn("failed to list gallery categories", zap.Error(err))
	}

	return render(c, http.StatusOK, views.Gallery(views.GalleryData{
		PageData:   h.basePageData(c, "Gallery", string(models.PageGallery)),
		Images:     images,
		Categories: categories,
		Selected:   category,
	}))
}

// Notices renders the notice board.
func (h *Handlers) Notices(c echo.Context) error {
	notices, err := h.content.ListActiveNotices(c.Request().Context())
	if err != nil {
		h.logger.Warn("failed to list notices", zap.Error(err))
	}

	return render(c, http.StatusOK, views.Notices(views.NoticesData{
		PageData: h.basePageData(c, "Notices", string(models.PageNotices)),
		Notices:  h.noticeViews(notices),
	}))
}

func (h *Handlers) noticeViews(notices []models.Notice) []views.NoticeView {
	out := make([]views.NoticeView, 0, len(notices))
	for _, n := range notices {
		html, err := h.markdown.Render(n.Content)
		if err != nil {
			h.logger.Warn("failed to render notice", zap.Int64("notice_id", n.ID), zap.Error(err))
		}
		out = append(out, views.NoticeView{
			Notice:  n,
			HTML:    html,
			Excerpt: h.markdown.Excerpt(n.Content, noticeExcerptLength),
		})
	}
	return out
}

// Contact renders the contact form.
func (h *Handlers) Contact(c echo.Context) error {
	return render(c, http.StatusOK, views.Contact(views.ContactData{
		PageData: h.basePageData(c, "Contact", string(models.PageContact)),
	}))
}

// ContactSubmit stores a contact message and redirects back to the form.
func (h *Handlers) ContactSubmit(c echo.Context) error {
	var in models.ContactCreate
	if err := c.Bind(&in); err != nil {
		h.setFlash(c, "error", "Invalid form submission.")
		return c.Redirect(http.StatusSeeOther, "/contact")
	}

	if _, err := h.content.SubmitContact(c.Request().Context(), in); err != nil {
		h.flashError(c, err)
		return c.Redirect(http.StatusSeeOther, "/contact")
	}

	h.setFlash(c, "success", "Thank you! Your message has been sent.")
	return c.Redirect(http.StatusSeeOther, "/contact")
}

// flashError maps a service error to a flash notice. Validation messages are shown as-is.
func (h *Handlers) flashError(c echo.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		h.setFlash(c, "error", err.Error())
	case errors.Is(err, services.ErrNotFound):
		h.setFlash(c, "error", "Record not found.")
	default:
		h.logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
		h.setFlash(c, "error", "Something went wrong. Please try again.")
	}
}
