package repository

import (
	"context"

	"sneakercloset/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow-edge operations
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) (bool, error)
	Delete(ctx context.Context, followerID, followedID uint) error
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.User, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.User, error)
	FollowerIDs(ctx context.Context, userID uint) ([]uint, error)
	Counts(ctx context.Context, userID uint) (followers, following int64, err error)
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create reports whether a new edge was written; an existing edge is left alone.
func (r *followRepository) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	return insertIgnoringDuplicate(r.db.WithContext(ctx), follow)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID uint) error {
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ListFollowing returns the users userID follows.
func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN follows f ON f.followed_id = users.id").
		Where("f.follower_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// ListFollowers returns the users following userID.
func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN follows f ON f.follower_id = users.id").
		Where("f.followed_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Order("follower_id ASC").
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	var followers, following int64
	db := r.db.WithContext(ctx).Model(&models.Follow{})
	if err := db.Where("followed_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	return followers, following, nil
}

// DeleteAllForUser removes every edge touching userID, in both directions.
func (r *followRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? OR followed_id = ?", userID, userID).
		Delete(&models.Follow{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
