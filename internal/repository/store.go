package repository

import (
	"context"
	"errors"

	"sneakercloset/internal/models"

	"gorm.io/gorm"
)

// Repositories bundles the repositories bound to one connection or transaction.
type Repositories struct {
	Users         UserRepository
	Sneakers      SneakerRepository
	Collection    CollectionRepository
	Follows       FollowRepository
	Notifications NotificationRepository
}

// Store hands out repositories and runs units of work atomically.
type Store interface {
	Repos() Repositories
	// Atomic runs fn in one transaction; any returned error rolls it back.
	Atomic(ctx context.Context, fn func(Repositories) error) error
}

type gormStore struct {
	db    *gorm.DB
	repos Repositories
}

// NewStore returns a Store over db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db: db,
		repos: Repositories{
			Users:         NewUserRepository(db),
			Sneakers:      NewSneakerRepository(db),
			Collection:    NewCollectionRepository(db),
			Follows:       NewFollowRepository(db),
			Notifications: NewNotificationRepository(db),
		},
	}
}

func (s *gormStore) Repos() Repositories {
	return s.repos
}

// Atomic binds fresh, uncached repositories to the transaction so no
// uncommitted row reaches the shared cache.
func (s *gormStore) Atomic(ctx context.Context, fn func(Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Repositories{
			Users:         &userRepository{db: tx},
			Sneakers:      &sneakerRepository{db: tx},
			Collection:    NewCollectionRepository(tx),
			Follows:       NewFollowRepository(tx),
			Notifications: NewNotificationRepository(tx),
		})
	})
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
