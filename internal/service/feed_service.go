package service

import (
	"context"

	"sneakercloset/internal/models"
	"sneakercloset/internal/repository"
	"sneakercloset/internal/session"
)

// FeedService reads the actor's notification feed.
type FeedService struct {
	store repository.Store
}

// NewFeedService returns a new FeedService.
func NewFeedService(store repository.Store) *FeedService {
	return &FeedService{store: store}
}

// NotificationsFor returns the actor's notifications, newest first.
func (s *FeedService) NotificationsFor(ctx context.Context, actor session.Identity, limit, offset int) ([]models.Notification, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	return s.store.Repos().Notifications.ListForUser(ctx, actor.UserID, limit, offset)
}
