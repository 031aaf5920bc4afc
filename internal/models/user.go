package models

import "time"

// Role represents an admin panel permission level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
)

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTeacher:
		return true
	}
	return false
}

// CanManageContent returns true if the role may add or remove content records.
func (r Role) CanManageContent() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// CanAdmin returns true if the role may manage accounts and site settings.
func (r Role) CanAdmin() bool {
	return r == RoleAdmin
}

// Admin is an account that can sign in to the admin panel.
type Admin struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:200;not null" json:"-"` // Never expose in JSON
	Name         string    `gorm:"size:120;not null" json:"name"`
	Role         Role      `gorm:"size:50;not null;default:teacher" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Admin) TableName() string {
	return "admins"
}

// AdminCreate contains data for creating a new admin account.
type AdminCreate struct {
	Username string `form:"username" validate:"required,max=80"`
	Password string `form:"password" validate:"required,max=72"`
	Name     string `form:"name" validate:"required,max=120"`
	Role     Role   `form:"role"`
}
