package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"college/internal/models"
)

// FindVisit looks up the visit row for ip, page and dateKey inside tx.
// It returns ErrNotFound when no visit has been recorded yet.
func FindVisit(tx *gorm.DB, ip string, page models.Page, dateKey string) (*models.VisitEvent, error) {
	var visit models.VisitEvent
	err := tx.Where("ip = ? AND page = ? AND date_key = ?", ip, page, dateKey).
		Take(&visit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &visit, nil
}

// InsertVisit appends a visit row inside tx.
func InsertVisit(tx *gorm.DB, visit *models.VisitEvent) error {
	return tx.Create(visit).Error
}

// CountVisits returns the total number of visit rows.
func (db *DB) CountVisits(ctx context.Context) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.VisitEvent{}).Count(&count).Error
	return count, err
}

// CountVisitsOnDate returns the number of visits whose date key equals dateKey.
func (db *DB) CountVisitsOnDate(ctx context.Context, dateKey string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.VisitEvent{}).Where("date_key = ?", dateKey).Count(&count).Error
	return count, err
}

// CountVisitsSince returns the number of visits with a timestamp at or after since.
func (db *DB) CountVisitsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.VisitEvent{}).Where(clause.Gte{Column: clause.Column{Name: "timestamp"}, Value: since}).Count(&count).Error
	return count, err
}

// CountVisitsByDate groups visits with a date key at or after fromKey by date key.
func (db *DB) CountVisitsByDate(ctx context.Context, fromKey string) (map[string]int64, error) {
	var rows []struct {
		DateKey string
		Count   int64
	}
	err := db.WithContext(ctx).
		Model(&models.VisitEvent{}).
		Select("date_key, COUNT(*) AS count").
		Where("date_key >= ?", fromKey).
		Group("date_key").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.DateKey] = row.Count
	}
	return counts, nil
}

// CountUniqueIPs counts distinct visitor IPs. A non-nil dateKey restricts the count to that day.
func (db *DB) CountUniqueIPs(ctx context.Context, dateKey *string) (int64, error) {
	var count int64
	q := db.WithContext(ctx).Model(&models.VisitEvent{})
	if dateKey != nil {
		q = q.Where("date_key = ?", *dateKey)
	}
	err := q.Distinct("ip").Count(&count).Error
	return count, err
}

// CountVisitsByPage groups all visits by page.
func (db *DB) CountVisitsByPage(ctx context.Context) ([]models.PageCount, error) {
	var rows []models.PageCount
	err := db.WithContext(ctx).
		Model(&models.VisitEvent{}).
		Select("page, COUNT(*) AS count").
		Group("page").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
