package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"college/internal/models"
	"college/internal/services"
	"college/internal/views"
)

const dateLayout = "02 Jan 2006"

// contentSection describes one admin management page for a content type.
type contentSection struct {
	name       string
	heading    string
	singular   string
	fields     []views.FormField
	columns    []string
	rows       func(ctx context.Context, svc *services.ContentService) ([]views.ContentRow, error)
	add        func(c echo.Context, svc *services.ContentService, by string) error
	deactivate func(ctx context.Context, svc *services.ContentService, id int64) error
}

// bindAndAdd binds the request form into a T and passes it to add.
func bindAndAdd[T any](c echo.Context, add func(ctx context.Context, in T) error) error {
	var in T
	if err := c.Bind(&in); err != nil {
		return fmt.Errorf("%w: invalid form submission", services.ErrValidation)
	}
	return add(c.Request().Context(), in)
}

var contentSections = []contentSection{
	{
		name:     "books",
		heading:  "Library books",
		singular: "Book",
		fields: []views.FormField{
			{Name: "title", Label: "Title", Kind: "text", Required: true},
			{Name: "author", Label: "Author", Kind: "text", Required: true},
			{Name: "subject", Label: "Subject", Kind: "text", Required: true},
			{Name: "course", Label: "Course", Kind: "text"},
			{Name: "semester", Label: "Semester", Kind: "text"},
			{Name: "drive_link", Label: "Google Drive link", Kind: "url", Required: true},
			{Name: "description", Label: "Description", Kind: "textarea"},
		},
		columns: []string{"Title", "Author", "Subject", "Course", "Semester", "Uploaded"},
		rows: func(ctx context.Context, svc *services.ContentService) ([]views.ContentRow, error) {
			books, err := svc.ListAllBooks(ctx)
			rows := make([]views.ContentRow, 0, len(books))
			for _, b := range books {
				rows = append(rows, views.ContentRow{
					ID:     b.ID,
					Cells:  []string{b.Title, b.Author, b.Subject, b.Course, b.Semester, b.UploadDate.Format(dateLayout)},
					Link:   services.NormalizeDocumentLink(b.DriveLink).View,
					Active: b.IsActive,
				})
			}
			return rows, err
		},
		add: func(c echo.Context, svc *services.ContentService, by string) error {
			return bindAndAdd(c, func(ctx context.Context, in models.BookCreate) error {
				_, err := svc.AddBook(ctx, in, by)
				return err
			})
		},
		deactivate: func(ctx context.Context, svc *services.ContentService, id int64) error {
			return svc.DeactivateBook(ctx, id)
		},
	},
	{
		name:     "results",
		heading:  "Results",
		singular: "Result",
		fields: []views.FormField{
			{Name: "title", Label: "Title", Kind: "text", Required: true},
			{Name: "exam_type", Label: "Exam type", Kind: "text"},
			{Name: "course", Label: "Course", Kind: "text"},
			{Name: "semester", Label: "Semester", Kind: "text"},
			{Name: "year", Label: "Year", Kind: "text"},
			{Name: "drive_link", Label: "Google Drive link", Kind: "url", Required: true},
		},
		columns: []string{"Title", "Exam", "Course", "Semester", "Year", "Uploaded"},
		rows: func(ctx context.Context, svc *services.ContentService) ([]views.ContentRow, error) {
			results, err := svc.ListAllResults(ctx)
			rows := make([]views.ContentRow, 0, len(results))
			for _, r := range results {
				rows = append(rows, views.ContentRow{
					ID:     r.ID,
					Cells:  []string{r.Title, r.ExamType, r.Course, r.Semester, r.Year, r.UploadDate.Format(dateLayout)},
					Link:   services.NormalizeDocumentLink(r.DriveLink).View,
					Active: r.IsActive,
				})
			}
			return rows, err
		},
		add: func(c echo.Context, svc *services.ContentService, by string) error {
			return bindAndAdd(c, func(ctx context.Context, in models.ResultCreate) error {
				_, err := svc.AddResult(ctx, in, by)
				return err
			})
		},
		deactivate: func(ctx context.Context, svc *services.ContentService, id int64) error {
			return svc.DeactivateResult(ctx, id)
		},
	},
	{
		name:     "notices",
		heading:  "Notices",
		singular: "Notice",
		fields: []views.FormField{
			{Name: "title", Label: "Title", Kind: "text", Required: true},
			{Name: "content", Label: "Content (Markdown)", Kind: "textarea", Required: true},
			{Name: "category", Label: "Category", Kind: "text"},
			{Name: "attachment_link", Label: "Attachment link", Kind: "url"},
			{Name: "is_important", Label: "Mark as important", Kind: "checkbox"},
		},
		columns: []string{"Title", "Category", "Important", "Posted by", "Posted"},
		rows: func(ctx context.Context, svc *services.ContentService) ([]views.ContentRow, error) {
			notices, err := svc.ListAllNotices(ctx)
			rows := make([]views.ContentRow, 0, len(notices))
			for _, n := range notices {
				important := ""
				if n.IsImportant {
					important = "Yes"
				}
				rows = append(rows, views.ContentRow{
					ID:     n.ID,
					Cells:  []string{n.Title, n.Category, important, n.PostedBy, n.PostDate.Format(dateLayout)},
					Link:   n.AttachmentLink,
					Active: n.IsActive,
				})
			}
			return rows, err
		},
		add: func(c echo.Context, svc *services.ContentService, by string) error {
			return bindAndAdd(c, func(ctx context.Context, in models.NoticeCreate) error {
				_, err := svc.AddNotice(ctx, in, by)
				return err
			})
		},
		deactivate: func(ctx context.Context, svc *services.ContentService, id int64) error {
			return svc.DeactivateNotice(ctx, id)
		},
	},
	{
		name:     "faculty",
		heading:  "Faculty",
		singular: "Faculty profile",
		fields: []views.FormField{
			{Name: "name", Label: "Name", Kind: "text", Required: true},
			{Name: "designation", Label: "Designation", Kind: "text"},
			{Name: "department", Label: "Department", Kind: "text"},
			{Name: "qualification", Label: "Qualification", Kind: "text"},
			{Name: "experience", Label: "Experience", Kind: "text"},
			{Name: "specialization", Label: "Specialization", Kind: "text"},
			{Name: "email", Label: "Email", Kind: "email"},
			{Name: "phone", Label: "Phone", Kind: "text"},
			{Name: "photo_url", Label: "Photo link", Kind: "url"},
		},
		columns: []string{"Name", "Designation", "Department", "Qualification", "Added"},
		rows: func(ctx context.Context, svc *services.ContentService) ([]views.ContentRow, error) {
			faculty, err := svc.ListAllFaculty(ctx)
			rows := make([]views.ContentRow, 0, len(faculty))
			for _, f := range faculty {
				rows = append(rows, views.ContentRow{
					ID:     f.ID,
					Cells:  []string{f.Name, f.Designation, f.Department, f.Qualification, f.CreatedAt.Format(dateLayout)},
					Link:   f.PhotoURL,
					Active: f.IsActive,
				})
			}
			return rows, err
		},
		add: func(c echo.Context, svc *services.ContentService, _ string) error {
			return bindAndAdd(c, func(ctx context.Context, in models.FacultyCreate) error {
				_, err := svc.AddFaculty(ctx, in)
				return err
			})
		},
		deactivate: func(ctx context.Context, svc *services.ContentService, id int64) error {
			return svc.DeactivateFaculty(ctx, id)
		},
	},
	{
		name:     "courses",
		heading:  "Courses",
		singular: "Course",
		fields: []views.FormField{
			{Name: "name", Label: "Name", Kind: "text", Required: true},
			{Name: "code", Label: "Code", Kind: "text"},
			{Name: "duration", Label: "Duration", Kind: "text"},
			{Name: "department", Label: "Department", Kind: "text"},
			{Name: "seats", Label: "Seats", Kind: "number"},
			{Name: "eligibility", Label: "Eligibility", Kind: "textarea"},
			{Name: "description", Label: "Description", Kind: "textarea"},
		},
		columns: []string{"Name", "Code", "Duration", "Seats", "Department"},
		rows: func(ctx context.Context, svc *services.ContentService) ([]views.ContentRow, error) {
			courses, err := svc.ListAllCourses(ctx)
			rows := make([]views.ContentRow, 0, len(courses))
			for _, co := range courses {
				rows = append(rows, views.ContentRow{
					ID:     co.ID,
					Cells:  []string{co.Name, co.Code, co.Duration, strconv.Itoa(co.Seats), co.Department},
					Active: co.IsActive,
				})
			}
			return rows, err
		},
		add: func(c echo.Context, svc *services.ContentService, _ string) error {
			return bindAndAdd(c, func(ctx context.Context, in models.CourseCreate) error {
				_, err := svc.AddCourse(ctx, in)
				return err
			})
		},
		deactivate: func(ctx context.Context, svc *services.ContentService, id int64) error {
			return svc.DeactivateCourse(ctx, id)
		},
	},
	{
		name:     "gallery",
		heading:  "Gallery",
		singular: "Image",
		fields: []views.FormField{
			{Name: "title", Label: "Title", Kind: "text"},
			{Name: "image_url", Label: "Image link", Kind: "url", Required: true},
			{Name: "category", Label: "Category", Kind: "text"},
		},
		columns: []string{"Title", "Category", "Uploaded"},
		rows: func(ctx context.Context, svc *services.ContentService) ([]views.ContentRow, error) {
			images, err := svc.ListAllGallery(ctx)
			rows := make([]views.ContentRow, 0, len(images))
			for _, img := range images {
				title := img.Title
				if title == "" {
					title = "(untitled)"
				}
				rows = append(rows, views.ContentRow{
					ID:     img.ID,
					Cells:  []string{title, img.Category, img.UploadDate.Format(dateLayout)},
					Link:   img.ImageURL,
					Active: img.IsActive,
				})
			}
			return rows, err
		},
		add: func(c echo.Context, svc *services.ContentService, _ string) error {
			return bindAndAdd(c, func(ctx context.Context, in models.GalleryCreate) error {
				_, err := svc.AddGalleryImage(ctx, in)
				return err
			})
		},
		deactivate: func(ctx context.Context, svc *services.ContentService, id int64) error {
			return svc.DeactivateGalleryImage(ctx, id)
		},
	},
}
