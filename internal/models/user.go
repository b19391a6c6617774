// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account on the Uplift platform. Organizations and
// volunteers share the same table; organizations additionally carry a
// Conservationist profile.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Username      string         `gorm:"unique;not null" json:"username"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      string         `gorm:"not null" json:"-"`
	IsAdmin       bool           `gorm:"default:false" json:"is_admin"`
	IsDeactivated bool           `gorm:"default:false;index" json:"is_deactivated"`
	// Strikes only ever increases; see ModerationService.
	Strikes      int            `gorm:"default:0" json:"strikes"`
	Location     string         `json:"location"`
	ProfileImage string         `json:"profile_image"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Campaigns    []Campaign     `gorm:"foreignKey:UserID" json:"campaigns,omitempty"`
}

// Conservationist is the organization profile attached to a user account.
type Conservationist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Name      string    `gorm:"not null" json:"name"`
	About     string    `gorm:"type:text" json:"about"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
