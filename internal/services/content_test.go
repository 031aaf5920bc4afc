package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"college/internal/database/dbtest"
	"college/internal/models"
)

func newContentService(t *testing.T) *ContentService {
	t.Helper()
	return NewContentService(dbtest.New(t), zap.NewNop())
}

func TestAddBook_DerivesDownloadLink(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	book, err := svc.AddBook(ctx, models.BookCreate{
		Title:     "  Modern Physics ",
		Author:    "Beiser",
		Subject:   "Physics",
		DriveLink: "https://drive.google.com/file/d/ABC123/view?usp=sharing",
	}, "Librarian")
	require.NoError(t, err)

	assert.Equal(t, "Modern Physics", book.Title)
	assert.Equal(t, "https://drive.google.com/uc?export=download&id=ABC123", book.DownloadLink)
	assert.Equal(t, "Librarian", book.UploadedBy)
	assert.True(t, book.IsActive)
}

func TestAddBook_Validation(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	_, err := svc.AddBook(ctx, models.BookCreate{Title: "No link", Author: "A", Subject: "S", DriveLink: "   "}, "x")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "drive link is required")

	all, err := svc.ListAllBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeactivate_HidesFromPublicListing(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	notice, err := svc.AddNotice(ctx, models.NoticeCreate{Title: "Exam schedule", Content: "**Soon**"}, "Admin")
	require.NoError(t, err)
	assert.Equal(t, "General", notice.Category)

	require.NoError(t, svc.DeactivateNotice(ctx, notice.ID))

	active, err := svc.ListActiveNotices(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListAllNotices(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, notice.ID, all[0].ID)
	assert.False(t, all[0].IsActive)

	assert.ErrorIs(t, svc.DeactivateNotice(ctx, 12345), ErrNotFound)
}

func TestImageLinksNormalizedOnCreate(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	img, err := svc.AddGalleryImage(ctx, models.GalleryCreate{ImageURL: "https://drive.google.com/open?id=IMG1"})
	require.NoError(t, err)
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=IMG1", img.ImageURL)
	assert.Equal(t, "Campus", img.Category)

	fac, err := svc.AddFaculty(ctx, models.FacultyCreate{
		Name:       "Dr. R. Mishra",
		Department: "Physics",
		PhotoURL:   "https://drive.google.com/file/d/PHOTO/view",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=PHOTO", fac.PhotoURL)

	depts, err := svc.FacultyDepartments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Physics"}, depts)
}

func TestHomeAndStats(t *testing.T) {
	svc := newContentService(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := svc.AddNotice(ctx, models.NoticeCreate{Title: "Notice", Content: "body"}, "Admin")
		require.NoError(t, err)
		_, err = svc.AddGalleryImage(ctx, models.GalleryCreate{ImageURL: "https://cdn.example.com/x.jpg"})
		require.NoError(t, err)
	}
	course, err := svc.AddCourse(ctx, models.CourseCreate{Name: "BA", Seats: 120})
	require.NoError(t, err)
	_, err = svc.AddCourse(ctx, models.CourseCreate{Name: "BSc"})
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateCourse(ctx, course.ID))

	home, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.Len(t, home.Notices, 5)
	assert.Len(t, home.Gallery, 6)
	require.Len(t, home.Courses, 1)
	assert.Equal(t, "BSc", home.Courses[0].Name)

	_, err = svc.SubmitContact(ctx, models.ContactCreate{Name: "Ravi", Email: "ravi@example.com", Message: "Hello"})
	require.NoError(t, err)

	stats := svc.Stats(ctx)
	assert.Equal(t, int64(7), stats.Notices)
	assert.Equal(t, int64(7), stats.Gallery)
	assert.Equal(t, int64(1), stats.Courses)
	assert.Equal(t, int64(1), stats.Messages)
	assert.Zero(t, stats.Books)
}

func TestSubmitContact_RequiresMessage(t *testing.T) {
	svc := newContentService(t)
	_, err := svc.SubmitContact(context.Background(), models.ContactCreate{Name: "Ravi", Email: "ravi@example.com"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "message is required")
}
