package database

import (
	"context"

	"college/internal/models"
)

// CreateMessage stores a contact form submission.
func (db *DB) CreateMessage(ctx context.Context, msg *models.ContactMessage) error {
	return db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns contact messages, newest first.
func (db *DB) ListMessages(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	q := db.WithContext(ctx).Order("date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkMessageRead flags a message as read.
func (db *DB) MarkMessageRead(ctx context.Context, id int64) error {
	result := db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Already read rows still count as found on most drivers, but MySQL reports 0 changed rows.
		var count int64
		if err := db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// CountUnreadMessages returns the number of unread contact messages.
func (db *DB) CountUnreadMessages(ctx context.Context) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.ContactMessage{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}
