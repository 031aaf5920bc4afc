package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"college/internal/models"
)

// CreateAdmin inserts a new admin account.
func (db *DB) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	return db.WithContext(ctx).Create(admin).Error
}

// GetAdminByID retrieves an admin by ID.
func (db *DB) GetAdminByID(ctx context.Context, id int64) (*models.Admin, error) {
	var admin models.Admin
	if err := db.WithContext(ctx).First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// GetAdminByUsername retrieves an admin by username.
func (db *DB) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	if err := db.WithContext(ctx).Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// UsernameExists reports whether an account with username exists.
func (db *DB) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Admin{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ListAdmins returns all accounts ordered by creation.
func (db *DB) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := db.WithContext(ctx).Order("created_at, id").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

// DeleteAdmin removes an account permanently.
func (db *DB) DeleteAdmin(ctx context.Context, id int64) error {
	result := db.WithContext(ctx).Delete(&models.Admin{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAdmins returns the number of accounts.
func (db *DB) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error
	return count, err
}
