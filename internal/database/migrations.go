package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"college/internal/models"
)

// schema lists every table managed by the application.
var schema = []interface{}{
	&models.Admin{},
	&models.Book{},
	&models.Result{},
	&models.Notice{},
	&models.Faculty{},
	&models.Course{},
	&models.GalleryImage{},
	&models.ContactMessage{},
	&models.VisitEvent{},
	&models.SiteSetting{},
}

// Migrate creates or updates all tables.
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.WithContext(ctx).AutoMigrate(schema...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

//go:embed seed.yaml
var seedYAML []byte

// seedData is the default catalogue inserted into an empty database.
type seedData struct {
	Courses []struct {
		Name        string `yaml:"name"`
		Code        string `yaml:"code"`
		Duration    string `yaml:"duration"`
		Department  string `yaml:"department"`
		Seats       int    `yaml:"seats"`
		Description string `yaml:"description"`
		Eligibility string `yaml:"eligibility"`
	} `yaml:"courses"`
	Notices []struct {
		Title       string `yaml:"title"`
		Content     string `yaml:"content"`
		Category    string `yaml:"category"`
		IsImportant bool   `yaml:"important"`
		PostedBy    string `yaml:"posted_by"`
	} `yaml:"notices"`
	Settings map[string]string `yaml:"settings"`
}

func parseSeed(raw []byte) (*seedData, error) {
	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// Seed inserts default courses, notices and settings into tables that are still empty.
// It returns the number of rows inserted.
func (db *DB) Seed(ctx context.Context) (int, error) {
	data, err := parseSeed(seedYAML)
	if err != nil {
		return 0, err
	}

	inserted := 0
	err = db.Transaction(ctx, func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var courseCount int64
		if err := tx.Model(&models.Course{}).Count(&courseCount).Error; err != nil {
			return err
		}
		if courseCount == 0 {
			for _, c := range data.Courses {
				course := &models.Course{
					Name:        c.Name,
					Code:        c.Code,
					Duration:    c.Duration,
					Department:  c.Department,
					Seats:       c.Seats,
					Description: c.Description,
					Eligibility: c.Eligibility,
					CreatedAt:   now,
					IsActive:    true,
				}
				if err := tx.Create(course).Error; err != nil {
					return fmt.Errorf("failed to seed course %q: %w", c.Code, err)
				}
				inserted++
			}
		}

		var noticeCount int64
		if err := tx.Model(&models.Notice{}).Count(&noticeCount).Error; err != nil {
			return err
		}
		if noticeCount == 0 {
			for _, n := range data.Notices {
				notice := &models.Notice{
					Title:       n.Title,
					Content:     n.Content,
					Category:    n.Category,
					IsImportant: n.IsImportant,
					PostedBy:    n.PostedBy,
					PostDate:    now,
					IsActive:    true,
				}
				if err := tx.Create(notice).Error; err != nil {
					return fmt.Errorf("failed to seed notice: %w", err)
				}
				inserted++
			}
		}

		for key, value := range data.Settings {
			var count int64
			if err := tx.Model(&models.SiteSetting{}).Where(settingKeyIs(key)).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&models.SiteSetting{Key: key, Value: value, UpdatedAt: now}).Error; err != nil {
				return fmt.Errorf("failed to seed setting %q: %w", key, err)
			}
			inserted++
		}

		return nil
	})

	return inserted, err
}
