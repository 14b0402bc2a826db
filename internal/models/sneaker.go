package models

import "time"

// Sneaker is a catalog item. Rows are written by the seeder and never
// mutated by the application.
type Sneaker struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;index:idx_sneakers_name" json:"name"`
	Brand       string    `gorm:"not null" json:"brand"`
	ImageURL    string    `json:"image_url"`
	RetailPrice *float64  `json:"retail_price,omitempty"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Sneaker) TableName() string {
	return "sneakers"
}
