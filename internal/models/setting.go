package models

import "time"

// SiteSetting is a key/value pair editable from the admin panel.
type SiteSetting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (SiteSetting) TableName() string {
	return "site_settings"
}

// Setting keys shown on public pages.
const (
	SettingSiteName = "site_name"
	SettingTagline  = "tagline"
	SettingAddress  = "address"
	SettingPhone    = "phone"
	SettingEmail    = "email"
)

// EditableSettings lists the keys exposed on the settings form.
var EditableSettings = []string{
	SettingSiteName, SettingTagline, SettingAddress, SettingPhone, SettingEmail,
}
