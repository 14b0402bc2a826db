// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// DefaultImageURL is the profile image used when none is supplied.
	DefaultImageURL = "/static/images/default-pic.png"
	// DefaultHeaderImageURL is the profile header used when none is supplied.
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents a registered collector.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	FirstName      string    `gorm:"size:100;not null" json:"first_name"`
	LastName       string    `gorm:"size:100;not null" json:"last_name"`
	ImageURL       string    `gorm:"not null" json:"image_url"`
	HeaderImageURL string    `gorm:"not null" json:"header_image_url"`
	SneakerSize    *string   `gorm:"size:10" json:"sneaker_size,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeSave fills in the default images for blank fields.
func (u *User) BeforeSave(_ *gorm.DB) error {
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = DefaultHeaderImageURL
	}
	return nil
}
