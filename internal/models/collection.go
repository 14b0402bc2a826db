package models

import "time"

// ClosetEntry records that a user owns a sneaker. At most one entry exists
// per (user, sneaker) pair.
type ClosetEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_closet_user_sneaker" json:"user_id"`
	SneakerID  uint      `gorm:"not null;uniqueIndex:idx_closet_user_sneaker;index" json:"sneaker_id"`
	InRotation bool      `gorm:"not null;default:false" json:"in_rotation"`
	CreatedAt  time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Sneaker Sneaker `gorm:"foreignKey:SneakerID;constraint:OnDelete:CASCADE" json:"sneaker"`
}

// TableName specifies the table name for GORM
func (ClosetEntry) TableName() string {
	return "closet_entries"
}

// WishlistEntry records that a user wants a sneaker.
type WishlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_sneaker" json:"user_id"`
	SneakerID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_sneaker;index" json:"sneaker_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Sneaker Sneaker `gorm:"foreignKey:SneakerID;constraint:OnDelete:CASCADE" json:"sneaker"`
}

// TableName specifies the table name for GORM
func (WishlistEntry) TableName() string {
	return "wishlist_entries"
}
