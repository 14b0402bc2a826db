package repository

import (
	"context"
	"errors"

	"sneakercloset/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository owns the closet and wishlist ledgers.
type CollectionRepository interface {
	GetClosetEntry(ctx context.Context, userID, sneakerID uint) (*models.ClosetEntry, error)
	IsWishlisted(ctx context.Context, userID, sneakerID uint) (bool, error)
	CountRotated(ctx context.Context, userID uint) (int64, error)
	AddToCloset(ctx context.Context, entry *models.ClosetEntry) (bool, error)
	RemoveFromCloset(ctx context.Context, userID, sneakerID uint) error
	AddToWishlist(ctx context.Context, entry *models.WishlistEntry) (bool, error)
	RemoveFromWishlist(ctx context.Context, userID, sneakerID uint) error
	SetRotation(ctx context.Context, userID, sneakerID uint, inRotation bool) error
	ListCloset(ctx context.Context, userID uint) ([]models.ClosetEntry, error)
	ListWishlist(ctx context.Context, userID uint) ([]models.WishlistEntry, error)
	ListRotation(ctx context.Context, userID uint) ([]models.ClosetEntry, error)
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type collectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

// GetClosetEntry returns nil, nil when the user does not own the sneaker.
func (r *collectionRepository) GetClosetEntry(ctx context.Context, userID, sneakerID uint) (*models.ClosetEntry, error) {
	var entry models.ClosetEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sneaker_id = ?", userID, sneakerID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

func (r *collectionRepository) IsWishlisted(ctx context.Context, userID, sneakerID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WishlistEntry{}).
		Where("user_id = ? AND sneaker_id = ?", userID, sneakerID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *collectionRepository) CountRotated(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ClosetEntry{}).
		Where("user_id = ? AND in_rotation = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// AddToCloset inserts entry unless the pair already exists. It reports
// whether a row was written, so a concurrent duplicate is a quiet no-op.
func (r *collectionRepository) AddToCloset(ctx context.Context, entry *models.ClosetEntry) (bool, error) {
	return insertIgnoringDuplicate(r.db.WithContext(ctx), entry)
}

func (r *collectionRepository) RemoveFromCloset(ctx context.Context, userID, sneakerID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND sneaker_id = ?", userID, sneakerID).
		Delete(&models.ClosetEntry{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// AddToWishlist inserts entry unless the pair already exists. It reports
// whether a row was written, so a concurrent duplicate is a quiet no-op.
func (r *collectionRepository) AddToWishlist(ctx context.Context, entry *models.WishlistEntry) (bool, error) {
	return insertIgnoringDuplicate(r.db.WithContext(ctx), entry)
}

func (r *collectionRepository) RemoveFromWishlist(ctx context.Context, userID, sneakerID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND sneaker_id = ?", userID, sneakerID).
		Delete(&models.WishlistEntry{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *collectionRepository) SetRotation(ctx context.Context, userID, sneakerID uint, inRotation bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ClosetEntry{}).
		Where("user_id = ? AND sneaker_id = ?", userID, sneakerID).
		Update("in_rotation", inRotation)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotInClosetError()
	}
	return nil
}

func (r *collectionRepository) ListCloset(ctx context.Context, userID uint) ([]models.ClosetEntry, error) {
	var entries []models.ClosetEntry
	if err := r.db.WithContext(ctx).
		Preload("Sneaker").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *collectionRepository) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	if err := r.db.WithContext(ctx).
		Preload("Sneaker").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *collectionRepository) ListRotation(ctx context.Context, userID uint) ([]models.ClosetEntry, error) {
	var entries []models.ClosetEntry
	if err := r.db.WithContext(ctx).
		Preload("Sneaker").
		Where("user_id = ? AND in_rotation = ?", userID, true).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

// DeleteAllForUser removes both ledgers for a user.
func (r *collectionRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&models.ClosetEntry{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.Where("user_id = ?", userID).Delete(&models.WishlistEntry{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
