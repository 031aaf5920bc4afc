package services

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"college/internal/database"
	"college/internal/models"
)

// ErrNotFound is returned when a content record does not exist.
var ErrNotFound = database.ErrNotFound

const (
	defaultNoticeCategory  = "General"
	defaultGalleryCategory = "Campus"

	homeNoticeLimit  = 5
	homeGalleryLimit = 6
)

// ContentService manages the public content records.
type ContentService struct {
	db     *database.DB
	logger *zap.Logger
}

// NewContentService creates a new content service.
func NewContentService(db *database.DB, logger *zap.Logger) *ContentService {
	return &ContentService{db: db, logger: logger}
}

func create[T any](ctx context.Context, db *database.DB, record *T) error {
	return db.Transaction(ctx, func(tx *gorm.DB) error {
		return database.Insert(tx, record)
	})
}

func deactivate[T any](ctx context.Context, db *database.DB, id int64) error {
	return db.Transaction(ctx, func(tx *gorm.DB) error {
		return database.Deactivate[T](tx, id)
	})
}

// Books

// AddBook validates and stores a new book. The download link is derived from the drive link.
func (s *ContentService) AddBook(ctx context.Context, in models.BookCreate, uploadedBy string) (*models.Book, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:        in.Title,
		Author:       in.Author,
		Subject:      in.Subject,
		Semester:     in.Semester,
		Course:       in.Course,
		DriveLink:    in.DriveLink,
		DownloadLink: NormalizeDocumentLink(in.DriveLink).Download,
		Description:  in.Description,
		UploadedBy:   uploadedBy,
		UploadDate:   time.Now().UTC(),
		IsActive:     true,
	}
	if err := create(ctx, s.db, book); err != nil {
		return nil, err
	}
	return book, nil
}

// ListActiveBooks returns active books matching filter.
func (s *ContentService) ListActiveBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	return s.db.ListActiveBooks(ctx, filter)
}

// ListAllBooks returns every book, including deactivated ones.
func (s *ContentService) ListAllBooks(ctx context.Context) ([]models.Book, error) {
	return s.db.ListAllBooks(ctx)
}

// BookFacets returns the distinct subjects and courses for the library filters.
func (s *ContentService) BookFacets(ctx context.Context) (subjects, courses []string, err error) {
	if subjects, err = s.db.BookSubjects(ctx); err != nil {
		return nil, nil, err
	}
	if courses, err = s.db.BookCourses(ctx); err != nil {
		return nil, nil, err
	}
	return subjects, courses, nil
}

// DeactivateBook hides a book from public listings.
func (s *ContentService) DeactivateBook(ctx context.Context, id int64) error {
	return deactivate[models.Book](ctx, s.db, id)
}

// Results

// AddResult validates and stores a new result.
func (s *ContentService) AddResult(ctx context.Context, in models.ResultCreate, uploadedBy string) (*models.Result, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	result := &models.Result{
		Title:      in.Title,
		ExamType:   in.ExamType,
		Course:     in.Course,
		Semester:   in.Semester,
		Year:       in.Year,
		DriveLink:  in.DriveLink,
		UploadedBy: uploadedBy,
		UploadDate: time.Now().UTC(),
		IsActive:   true,
	}
	if err := create(ctx, s.db, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListActiveResults returns active results.
func (s *ContentService) ListActiveResults(ctx context.Context) ([]models.Result, error) {
	return s.db.ListActiveResults(ctx)
}

// ListAllResults returns every result.
func (s *ContentService) ListAllResults(ctx context.Context) ([]models.Result, error) {
	return s.db.ListAllResults(ctx)
}

// DeactivateResult hides a result.
func (s *ContentService) DeactivateResult(ctx context.Context, id int64) error {
	return deactivate[models.Result](ctx, s.db, id)
}

// Notices

// AddNotice validates and stores a new notice.
func (s *ContentService) AddNotice(ctx context.Context, in models.NoticeCreate, postedBy string) (*models.Notice, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if in.Category == "" {
		in.Category = defaultNoticeCategory
	}

	notice := &models.Notice{
		Title:          in.Title,
		Content:        in.Content,
		Category:       in.Category,
		AttachmentLink: in.AttachmentLink,
		IsImportant:    in.IsImportant,
		PostedBy:       postedBy,
		PostDate:       time.Now().UTC(),
		IsActive:       true,
	}
	if err := create(ctx, s.db, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// ListActiveNotices returns active notices, newest first.
func (s *ContentService) ListActiveNotices(ctx context.Context) ([]models.Notice, error) {
	return s.db.ListActiveNotices(ctx, 0)
}

// ListAllNotices returns every notice.
func (s *ContentService) ListAllNotices(ctx context.Context) ([]models.Notice, error) {
	return s.db.ListAllNotices(ctx)
}

// DeactivateNotice hides a notice.
func (s *ContentService) DeactivateNotice(ctx context.Context, id int64) error {
	return deactivate[models.Notice](ctx, s.db, id)
}

// Faculty

// AddFaculty validates and stores a new faculty profile. The photo URL is normalized for inline display.
func (s *ContentService) AddFaculty(ctx context.Context, in models.FacultyCreate) (*models.Faculty, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	faculty := &models.Faculty{
		Name:           in.Name,
		Designation:    in.Designation,
		Department:     in.Department,
		Qualification:  in.Qualification,
		Email:          in.Email,
		Phone:          in.Phone,
		PhotoURL:       NormalizeImageLink(in.PhotoURL),
		Experience:     in.Experience,
		Specialization: in.Specialization,
		CreatedAt:      time.Now().UTC(),
		IsActive:       true,
	}
	if err := create(ctx, s.db, faculty); err != nil {
		return nil, err
	}
	return faculty, nil
}

// ListActiveFaculty returns active faculty profiles.
func (s *ContentService) ListActiveFaculty(ctx context.Context) ([]models.Faculty, error) {
	return s.db.ListActiveFaculty(ctx)
}

// ListAllFaculty returns every faculty profile.
func (s *ContentService) ListAllFaculty(ctx context.Context) ([]models.Faculty, error) {
	return s.db.ListAllFaculty(ctx)
}

// FacultyDepartments returns the distinct departments of active faculty.
func (s *ContentService) FacultyDepartments(ctx context.Context) ([]string, error) {
	return s.db.FacultyDepartments(ctx)
}

// DeactivateFaculty hides a faculty profile.
func (s *ContentService) DeactivateFaculty(ctx context.Context, id int64) error {
	return deactivate[models.Faculty](ctx, s.db, id)
}

// Courses

// AddCourse validates and stores a new course.
func (s *ContentService) AddCourse(ctx context.Context, in models.CourseCreate) (*models.Course, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:        in.Name,
		Code:        in.Code,
		Duration:    in.Duration,
		Description: in.Description,
		Eligibility: in.Eligibility,
		Seats:       in.Seats,
		Department:  in.Department,
		CreatedAt:   time.Now().UTC(),
		IsActive:    true,
	}
	if err := create(ctx, s.db, course); err != nil {
		return nil, err
	}
	return course, nil
}

// ListActiveCourses returns active courses.
func (s *ContentService) ListActiveCourses(ctx context.Context) ([]models.Course, error) {
	return s.db.ListActiveCourses(ctx)
}

// ListAllCourses returns every course.
func (s *ContentService) ListAllCourses(ctx context.Context) ([]models.Course, error) {
	return s.db.ListAllCourses(ctx)
}

// DeactivateCourse hides a course.
func (s *ContentService) DeactivateCourse(ctx context.Context, id int64) error {
	return deactivate[models.Course](ctx, s.db, id)
}

// Gallery

// AddGalleryImage validates and stores a new gallery image with a normalized image URL.
func (s *ContentService) AddGalleryImage(ctx context.Context, in models.GalleryCreate) (*models.GalleryImage, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}
	if in.Category == "" {
		in.Category = defaultGalleryCategory
	}

	image := &models.GalleryImage{
		Title:      in.Title,
		ImageURL:   NormalizeImageLink(in.ImageURL),
		Category:   in.Category,
		UploadDate: time.Now().UTC(),
		IsActive:   true,
	}
	if err := create(ctx, s.db, image); err != nil {
		return nil, err
	}
	return image, nil
}

// ListActiveGallery returns active images matching filter.
func (s *ContentService) ListActiveGallery(ctx context.Context, filter models.GalleryFilter) ([]models.GalleryImage, error) {
	return s.db.ListActiveGallery(ctx, filter, 0)
}

// ListAllGallery returns every gallery image.
func (s *ContentService) ListAllGallery(ctx context.Context) ([]models.GalleryImage, error) {
	return s.db.ListAllGallery(ctx)
}

// GalleryCategories returns the distinct categories of active images.
func (s *ContentService) GalleryCategories(ctx context.Context) ([]string, error) {
	return s.db.GalleryCategories(ctx)
}

// DeactivateGalleryImage hides a gallery image.
func (s *ContentService) DeactivateGalleryImage(ctx context.Context, id int64) error {
	return deactivate[models.GalleryImage](ctx, s.db, id)
}

// HomeContent is the data shown on the landing page.
type HomeContent struct {
	Notices []models.Notice
	Courses []models.Course
	Gallery []models.GalleryImage
}

// Home returns the latest notices, all active courses and the latest gallery images.
func (s *ContentService) Home(ctx context.Context) (*HomeContent, error) {
	notices, err := s.db.ListActiveNotices(ctx, homeNoticeLimit)
	if err != nil {
		return nil, err
	}
	courses, err := s.db.ListActiveCourses(ctx)
	if err != nil {
		return nil, err
	}
	gallery, err := s.db.ListActiveGallery(ctx, models.GalleryFilter{}, homeGalleryLimit)
	if err != nil {
		return nil, err
	}
	return &HomeContent{Notices: notices, Courses: courses, Gallery: gallery}, nil
}

// Stats returns the dashboard counts. Errors are logged and reported as zero counts.
func (s *ContentService) Stats(ctx context.Context) database.ContentStats {
	stats, err := s.db.GetContentStats(ctx)
	if err != nil {
		s.logger.Warn("failed to load dashboard stats", zap.Error(err))
		return database.ContentStats{}
	}
	return *stats
}

// Contact messages

// SubmitContact validates and stores a contact form message.
func (s *ContentService) SubmitContact(ctx context.Context, in models.ContactCreate) (*models.ContactMessage, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	msg := &models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
		Date:    time.Now().UTC(),
	}
	if err := s.db.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns contact messages, newest first.
func (s *ContentService) ListMessages(ctx context.Context) ([]models.ContactMessage, error) {
	return s.db.ListMessages(ctx, 0)
}

// RecentMessages returns the newest n contact messages.
func (s *ContentService) RecentMessages(ctx context.Context, n int) ([]models.ContactMessage, error) {
	return s.db.ListMessages(ctx, n)
}

// MarkMessageRead flags a contact message as read.
func (s *ContentService) MarkMessageRead(ctx context.Context, id int64) error {
	return s.db.MarkMessageRead(ctx, id)
}
