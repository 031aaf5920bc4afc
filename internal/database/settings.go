package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"college/internal/models"
)

// settingKeyIs matches a settings row by key. The column is quoted since KEY is reserved in MySQL.
func settingKeyIs(key string) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}

// GetSetting returns the stored value for key, or ErrNotFound.
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var setting models.SiteSetting
	if err := db.WithContext(ctx).Where(settingKeyIs(key)).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return setting.Value, nil
}

// SetSetting inserts or replaces the value stored for key.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	return upsertSetting(db.WithContext(ctx), key, value)
}

// SetSettings upserts several keys in a single transaction.
func (db *DB) SetSettings(ctx context.Context, values map[string]string) error {
	return db.Transaction(ctx, func(tx *gorm.DB) error {
		for key, value := range values {
			if err := upsertSetting(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := &models.SiteSetting{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}

// AllSettings returns every stored setting keyed by name.
func (db *DB) AllSettings(ctx context.Context) (map[string]string, error) {
	var rows []models.SiteSetting
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}
	return settings, nil
}
