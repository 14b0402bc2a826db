package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sneakercloset/internal/middleware"
	"sneakercloset/internal/models"
	"sneakercloset/internal/notifications"
	"sneakercloset/internal/observability"
	"sneakercloset/internal/repository"
	"sneakercloset/internal/session"

	"go.opentelemetry.io/otel/attribute"
)

// Publisher pushes catalog activity to followers after a change commits.
type Publisher interface {
	PublishCatalogAction(ctx context.Context, recipients []uint, action notifications.CatalogAction) error
}

// ActionResult reports what a closet, wishlist or rotation action did.
type ActionResult struct {
	Sneaker *models.Sneaker
	Outcome models.Outcome
	// Notification is the feed row written by an addition, if any.
	Notification *models.Notification
}

// CollectionService applies the ownership, wishlist and rotation state
// machine to a user's ledgers.
type CollectionService struct {
	store     repository.Store
	publisher Publisher
	now       func() time.Time
}

// NewCollectionService returns a CollectionService. publisher may be nil.
func NewCollectionService(store repository.Store, publisher Publisher) *CollectionService {
	return &CollectionService{store: store, publisher: publisher, now: time.Now}
}

func (s *CollectionService) AddToCloset(ctx context.Context, actor session.Identity, sneakerID uint) (*ActionResult, error) {
	return s.apply(ctx, actor, sneakerID, models.ActionAddToCloset)
}

func (s *CollectionService) RemoveFromCloset(ctx context.Context, actor session.Identity, sneakerID uint) (*ActionResult, error) {
	return s.apply(ctx, actor, sneakerID, models.ActionRemoveFromCloset)
}

func (s *CollectionService) AddToWishlist(ctx context.Context, actor session.Identity, sneakerID uint) (*ActionResult, error) {
	return s.apply(ctx, actor, sneakerID, models.ActionAddToWishlist)
}

func (s *CollectionService) RemoveFromWishlist(ctx context.Context, actor session.Identity, sneakerID uint) (*ActionResult, error) {
	return s.apply(ctx, actor, sneakerID, models.ActionRemoveFromWishlist)
}

// ToggleRotation flips the rotation flag of an owned sneaker, refusing to
// grow the rotation past models.RotationLimit.
func (s *CollectionService) ToggleRotation(ctx context.Context, actor session.Identity, sneakerID uint) (*ActionResult, error) {
	return s.apply(ctx, actor, sneakerID, models.ActionToggleRotation)
}

// RemoveFromRotation un-rotates sneakerID in userID's rotation. Only the
// owner may do so; a sneaker not in rotation is left alone.
func (s *CollectionService) RemoveFromRotation(ctx context.Context, actor session.Identity, userID, sneakerID uint) (*ActionResult, error) {
	if err := requireSelf(actor, userID); err != nil {
		return nil, err
	}
	return s.apply(ctx, actor, sneakerID, models.ActionRemoveFromRotation)
}

func (s *CollectionService) apply(ctx context.Context, actor session.Identity, sneakerID uint, action models.Action) (result *ActionResult, err error) {
	ctx, span := observability.StartSpan(ctx, "collection."+string(action),
		attribute.Int64("user.id", int64(actor.UserID)),
		attribute.Int64("sneaker.id", int64(sneakerID)))
	defer func() {
		observability.EndSpan(span, err)
		observability.LedgerTransitions.WithLabelValues(string(action), outcomeLabel(result, err)).Inc()
	}()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	// The catalog is immutable, so the cached read outside the transaction is safe.
	sneaker, err := s.store.Repos().Sneakers.GetByID(ctx, sneakerID)
	if err != nil {
		return nil, err
	}

	result = &ActionResult{Sneaker: sneaker}
	var username string
	err = s.store.Atomic(ctx, func(r repository.Repositories) error {
		user, err := r.Users.LockByID(ctx, actor.UserID)
		if err != nil {
			return staleSession(err)
		}
		username = user.Username

		entry, err := r.Collection.GetClosetEntry(ctx, actor.UserID, sneakerID)
		if err != nil {
			return err
		}
		wishlisted, err := r.Collection.IsWishlisted(ctx, actor.UserID, sneakerID)
		if err != nil {
			return err
		}
		var rotated int64
		if action == models.ActionToggleRotation {
			if rotated, err = r.Collection.CountRotated(ctx, actor.UserID); err != nil {
				return err
			}
		}

		outcome, err := models.Transition(action, models.DeriveState(entry, wishlisted), int(rotated))
		if err != nil {
			return err
		}
		written, err := applyEffect(ctx, r.Collection, actor.UserID, sneakerID, outcome.Effect)
		if err != nil {
			return err
		}
		if !written {
			// A concurrent request inserted the same row first.
			outcome = models.Outcome{From: outcome.From, To: outcome.From, AlreadyPresent: true}
		}
		result.Outcome = outcome

		if outcome.Notify {
			n := &models.Notification{
				UserID:    actor.UserID,
				Message:   activityMessage(user.Username, sneaker.Name, action),
				CreatedAt: s.now().UTC(),
			}
			if err := r.Notifications.Create(ctx, n); err != nil {
				return err
			}
			result.Notification = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Notification != nil {
		s.fanOut(ctx, actor.UserID, username, sneaker, action, result.Notification)
	}
	return result, nil
}

// applyEffect performs the ledger writes for effect. It returns false when
// an insert found its row already present.
func applyEffect(ctx context.Context, repo repository.CollectionRepository, userID, sneakerID uint, effect models.Effect) (bool, error) {
	switch effect {
	case models.EffectNone:
		return true, nil
	case models.EffectCreateWishlist:
		return repo.AddToWishlist(ctx, &models.WishlistEntry{UserID: userID, SneakerID: sneakerID})
	case models.EffectDeleteWishlist:
		return true, repo.RemoveFromWishlist(ctx, userID, sneakerID)
	case models.EffectMoveToCloset:
		if err := repo.RemoveFromWishlist(ctx, userID, sneakerID); err != nil {
			return false, err
		}
		return repo.AddToCloset(ctx, &models.ClosetEntry{UserID: userID, SneakerID: sneakerID})
	case models.EffectDeleteCloset:
		return true, repo.RemoveFromCloset(ctx, userID, sneakerID)
	case models.EffectRotate:
		return true, repo.SetRotation(ctx, userID, sneakerID, true)
	case models.EffectUnrotate:
		return true, repo.SetRotation(ctx, userID, sneakerID, false)
	}
	return false, models.NewInternalError(fmt.Errorf("unknown ledger effect %d", effect))
}

// fanOut publishes the addition to the actor's followers. The feed row is
// already committed, so failures are only logged.
func (s *CollectionService) fanOut(ctx context.Context, actorID uint, username string, sneaker *models.Sneaker, action models.Action, n *models.Notification) {
	if s.publisher == nil {
		return
	}
	followers, err := s.store.Repos().Follows.FollowerIDs(ctx, actorID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "load followers for fan-out failed", "error", err)
		return
	}
	event := notifications.CatalogAction{
		ActorID:     actorID,
		Username:    username,
		Action:      ledgerName(action),
		SneakerID:   sneaker.ID,
		SneakerName: sneaker.Name,
		Message:     n.Message,
		CreatedAt:   n.CreatedAt,
	}
	if err := s.publisher.PublishCatalogAction(ctx, followers, event); err != nil {
		middleware.Logger.WarnContext(ctx, "publish catalog action failed", "error", err)
	}
}

// Closet lists userID's closet; only the owner may look.
func (s *CollectionService) Closet(ctx context.Context, actor session.Identity, userID uint) ([]models.ClosetEntry, error) {
	if err := requireSelf(actor, userID); err != nil {
		return nil, err
	}
	return s.store.Repos().Collection.ListCloset(ctx, userID)
}

// Wishlist lists userID's wishlist; only the owner may look.
func (s *CollectionService) Wishlist(ctx context.Context, actor session.Identity, userID uint) ([]models.WishlistEntry, error) {
	if err := requireSelf(actor, userID); err != nil {
		return nil, err
	}
	return s.store.Repos().Collection.ListWishlist(ctx, userID)
}

// Rotation lists the rotated subset of userID's closet; only the owner may look.
func (s *CollectionService) Rotation(ctx context.Context, actor session.Identity, userID uint) ([]models.ClosetEntry, error) {
	if err := requireSelf(actor, userID); err != nil {
		return nil, err
	}
	return s.store.Repos().Collection.ListRotation(ctx, userID)
}

// ItemState reports the actor's relationship to sneakerID.
func (s *CollectionService) ItemState(ctx context.Context, actor session.Identity, sneakerID uint) (models.ItemState, error) {
	if actor.Anonymous() {
		return models.StateNone, nil
	}
	repo := s.store.Repos().Collection
	entry, err := repo.GetClosetEntry(ctx, actor.UserID, sneakerID)
	if err != nil {
		return "", err
	}
	wishlisted, err := repo.IsWishlisted(ctx, actor.UserID, sneakerID)
	if err != nil {
		return "", err
	}
	return models.DeriveState(entry, wishlisted), nil
}

func ledgerName(action models.Action) string {
	if action == models.ActionAddToWishlist {
		return "Wishlist"
	}
	return "Closet"
}

func activityMessage(username, sneakerName string, action models.Action) string {
	return fmt.Sprintf("%s added %s to %s", username, sneakerName, ledgerName(action))
}

func outcomeLabel(result *ActionResult, err error) string {
	switch {
	case err != nil:
		return strings.ToLower(models.ErrorCode(err))
	case result == nil:
		return "unknown"
	case result.Outcome.AlreadyPresent:
		return "already_present"
	case result.Outcome.Changed():
		return "changed"
	default:
		return "noop"
	}
}
