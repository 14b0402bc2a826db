package repository

import (
	"context"

	"sneakercloset/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository appends to and reads the per-user feed.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error)
	DeleteAllForUser(ctx context.Context, userID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(n).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListForUser returns the feed newest first.
func (r *notificationRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	var out []models.Notification
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if err := paginate(query, limit, offset).Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *notificationRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
