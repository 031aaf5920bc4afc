package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"college/internal/models"
)

// Insert creates a record inside tx.
func Insert[T any](tx *gorm.DB, record *T) error {
	return tx.Create(record).Error
}

// Deactivate soft-deletes the record with the given id by clearing is_active.
// Deactivating an already inactive record succeeds; an unknown id returns ErrNotFound.
func Deactivate[T any](tx *gorm.DB, id int64) error {
	var record T
	if err := tx.Select("id").First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return tx.Model(&record).Where("id = ?", id).Update("is_active", false).Error
}

// listActive returns active rows of T ordered by the given clause.
func listActive[T any](ctx context.Context, db *gorm.DB, order string, limit int) ([]T, error) {
	var rows []T
	q := db.WithContext(ctx).Where("is_active = ?", true).Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// listAll returns every row of T, inactive ones included.
func listAll[T any](ctx context.Context, db *gorm.DB, order string) ([]T, error) {
	var rows []T
	if err := db.WithContext(ctx).Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// distinctActive returns the sorted distinct non-empty values of column among active rows.
func distinctActive(ctx context.Context, db *gorm.DB, model interface{}, column string) ([]string, error) {
	var values []string
	err := db.WithContext(ctx).
		Model(model).
		Where("is_active = ?", true).
		Where(column+" <> ?", "").
		Distinct(column).
		Order(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// likeContains builds a case-insensitive LIKE pattern.
func likeContains(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// Books

// ListActiveBooks returns active books matching filter, newest first.
func (db *DB) ListActiveBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	q := db.WithContext(ctx).Where("is_active = ?", true)

	if s := strings.TrimSpace(filter.Subject); s != "" {
		q = q.Where("LOWER(subject) LIKE ?", likeContains(s))
	}
	if s := strings.TrimSpace(filter.Course); s != "" {
		q = q.Where("LOWER(course) LIKE ?", likeContains(s))
	}
	if s := strings.TrimSpace(filter.Semester); s != "" {
		q = q.Where("semester = ?", s)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := likeContains(s)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(subject) LIKE ?", pattern, pattern, pattern)
	}

	var books []models.Book
	if err := q.Order("upload_date DESC, id DESC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// ListAllBooks returns every book for the admin listing.
func (db *DB) ListAllBooks(ctx context.Context) ([]models.Book, error) {
	return listAll[models.Book](ctx, db.DB, "upload_date DESC, id DESC")
}

// BookSubjects returns the distinct subjects of active books.
func (db *DB) BookSubjects(ctx context.Context) ([]string, error) {
	return distinctActive(ctx, db.DB, &models.Book{}, "subject")
}

// BookCourses returns the distinct courses of active books.
func (db *DB) BookCourses(ctx context.Context) ([]string, error) {
	return distinctActive(ctx, db.DB, &models.Book{}, "course")
}

// Results

// ListActiveResults returns active results, newest first.
func (db *DB) ListActiveResults(ctx context.Context) ([]models.Result, error) {
	return listActive[models.Result](ctx, db.DB, "upload_date DESC, id DESC", 0)
}

// ListAllResults returns every result for the admin listing.
func (db *DB) ListAllResults(ctx context.Context) ([]models.Result, error) {
	return listAll[models.Result](ctx, db.DB, "upload_date DESC, id DESC")
}

// Notices

// ListActiveNotices returns active notices, newest first. A positive limit caps the result.
func (db *DB) ListActiveNotices(ctx context.Context, limit int) ([]models.Notice, error) {
	return listActive[models.Notice](ctx, db.DB, "post_date DESC, id DESC", limit)
}

// ListAllNotices returns every notice for the admin listing.
func (db *DB) ListAllNotices(ctx context.Context) ([]models.Notice, error) {
	return listAll[models.Notice](ctx, db.DB, "post_date DESC, id DESC")
}

// Faculty

// ListActiveFaculty returns active faculty ordered by department then name.
func (db *DB) ListActiveFaculty(ctx context.Context) ([]models.Faculty, error) {
	return listActive[models.Faculty](ctx, db.DB, "department, name", 0)
}

// ListAllFaculty returns every faculty profile for the admin listing.
func (db *DB) ListAllFaculty(ctx context.Context) ([]models.Faculty, error) {
	return listAll[models.Faculty](ctx, db.DB, "department, name")
}

// FacultyDepartments returns the distinct departments of active faculty.
func (db *DB) FacultyDepartments(ctx context.Context) ([]string, error) {
	return distinctActive(ctx, db.DB, &models.Faculty{}, "department")
}

// Courses

// ListActiveCourses returns active courses ordered by name.
func (db *DB) ListActiveCourses(ctx context.Context) ([]models.Course, error) {
	return listActive[models.Course](ctx, db.DB, "name, id", 0)
}

// ListAllCourses returns every course for the admin listing.
func (db *DB) ListAllCourses(ctx context.Context) ([]models.Course, error) {
	return listAll[models.Course](ctx, db.DB, "name, id")
}

// Gallery

// ListActiveGallery returns active gallery images matching filter, newest first.
// A positive limit caps the result.
func (db *DB) ListActiveGallery(ctx context.Context, filter models.GalleryFilter, limit int) ([]models.GalleryImage, error) {
	q := db.WithContext(ctx).Where("is_active = ?", true)
	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var images []models.GalleryImage
	if err := q.Order("upload_date DESC, id DESC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// ListAllGallery returns every gallery image for the admin listing.
func (db *DB) ListAllGallery(ctx context.Context) ([]models.GalleryImage, error) {
	return listAll[models.GalleryImage](ctx, db.DB, "upload_date DESC, id DESC")
}

// GalleryCategories returns the distinct categories of active images.
func (db *DB) GalleryCategories(ctx context.Context) ([]string, error) {
	return distinctActive(ctx, db.DB, &models.GalleryImage{}, "category")
}

// ContentStats holds the per-table counts shown on the dashboard.
type ContentStats struct {
	Books    int64 `json:"books"`
	Results  int64 `json:"results"`
	Notices  int64 `json:"notices"`
	Faculty  int64 `json:"faculty"`
	Courses  int64 `json:"courses"`
	Gallery  int64 `json:"gallery"`
	Messages int64 `json:"messages"`
}

// GetContentStats counts active content rows and unread contact messages.
func (db *DB) GetContentStats(ctx context.Context) (*ContentStats, error) {
	stats := &ContentStats{}
	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Book{}, &stats.Books},
		{&models.Result{}, &stats.Results},
		{&models.Notice{}, &stats.Notices},
		{&models.Faculty{}, &stats.Faculty},
		{&models.Course{}, &stats.Courses},
		{&models.GalleryImage{}, &stats.Gallery},
	}

	for _, c := range counts {
		if err := db.WithContext(ctx).Model(c.model).Where("is_active = ?", true).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	unread, err := db.CountUnreadMessages(ctx)
	if err != nil {
		return nil, err
	}
	stats.Messages = unread

	return stats, nil
}
