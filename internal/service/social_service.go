package service

import (
	"context"

	"sneakercloset/internal/models"
	"sneakercloset/internal/repository"
	"sneakercloset/internal/session"
)

// SocialService manages the directed follow graph.
type SocialService struct {
	store repository.Store
}

// NewSocialService returns a new SocialService.
func NewSocialService(store repository.Store) *SocialService {
	return &SocialService{store: store}
}

// Follow makes the actor follow targetID. Following twice is a no-op and
// following yourself is refused.
func (s *SocialService) Follow(ctx context.Context, actor session.Identity, targetID uint) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if actor.UserID == targetID {
		return models.NewValidationError("You cannot follow yourself.")
	}
	repos := s.store.Repos()
	if _, err := repos.Users.GetByID(ctx, targetID); err != nil {
		return err
	}
	_, err := repos.Follows.Create(ctx, &models.Follow{FollowerID: actor.UserID, FollowedID: targetID})
	return err
}

// Unfollow removes the edge if present.
func (s *SocialService) Unfollow(ctx context.Context, actor session.Identity, targetID uint) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	repos := s.store.Repos()
	if _, err := repos.Users.GetByID(ctx, targetID); err != nil {
		return err
	}
	return repos.Follows.Delete(ctx, actor.UserID, targetID)
}

// IsFollowing reports whether a follows b.
func (s *SocialService) IsFollowing(ctx context.Context, a, b uint) (bool, error) {
	return s.store.Repos().Follows.Exists(ctx, a, b)
}

// IsFollowedBy reports whether b follows a.
func (s *SocialService) IsFollowedBy(ctx context.Context, a, b uint) (bool, error) {
	return s.store.Repos().Follows.Exists(ctx, b, a)
}

// Following lists the users id follows.
func (s *SocialService) Following(ctx context.Context, id uint) ([]models.User, error) {
	repos := s.store.Repos()
	if _, err := repos.Users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return repos.Follows.ListFollowing(ctx, id)
}

// Followers lists the users following id.
func (s *SocialService) Followers(ctx context.Context, id uint) ([]models.User, error) {
	repos := s.store.Repos()
	if _, err := repos.Users.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return repos.Follows.ListFollowers(ctx, id)
}
