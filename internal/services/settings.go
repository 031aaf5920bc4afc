package services

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"college/internal/config"
	"college/internal/database"
	"college/internal/models"
)

// SettingsService exposes the key/value site settings.
type SettingsService struct {
	db       *database.DB
	logger   *zap.Logger
	defaults map[string]string
}

// NewSettingsService creates a settings service. Config values fill keys that were never stored.
func NewSettingsService(db *database.DB, cfg *config.Config, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		db:     db,
		logger: logger,
		defaults: map[string]string{
			models.SettingSiteName: cfg.Site.Name,
		},
	}
}

// All returns the stored settings merged over the defaults.
// Lookup failures are logged and yield the defaults only.
func (s *SettingsService) All(ctx context.Context) map[string]string {
	settings := make(map[string]string, len(s.defaults)+len(models.EditableSettings))
	for k, v := range s.defaults {
		settings[k] = v
	}

	stored, err := s.db.AllSettings(ctx)
	if err != nil {
		s.logger.Warn("failed to load site settings", zap.Error(err))
		return settings
	}
	for k, v := range stored {
		if v != "" || settings[k] == "" {
			settings[k] = v
		}
	}
	return settings
}

// Update upserts the editable keys present in values. Unknown keys are ignored.
func (s *SettingsService) Update(ctx context.Context, values map[string]string) error {
	filtered := make(map[string]string, len(values))
	for k, v := range values {
		if slices.Contains(models.EditableSettings, k) {
			filtered[k] = strings.TrimSpace(v)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return s.db.SetSettings(ctx, filtered)
}
