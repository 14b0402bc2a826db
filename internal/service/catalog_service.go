package service

import (
	"context"

	"sneakercloset/internal/models"
	"sneakercloset/internal/repository"
	"sneakercloset/internal/session"
)

// SneakerDetail is a catalog item plus the caller's relation to it.
type SneakerDetail struct {
	Sneaker *models.Sneaker  `json:"sneaker"`
	State   models.ItemState `json:"state"`
}

// CatalogService serves the sneaker catalog and the user directory.
type CatalogService struct {
	store      repository.Store
	collection *CollectionService
}

// NewCatalogService returns a new CatalogService.
func NewCatalogService(store repository.Store, collection *CollectionService) *CatalogService {
	return &CatalogService{store: store, collection: collection}
}

// ListSneakers returns every sneaker, or those whose name contains q.
func (s *CatalogService) ListSneakers(ctx context.Context, q string, limit, offset int) ([]models.Sneaker, error) {
	return s.store.Repos().Sneakers.Search(ctx, q, limit, offset)
}

// GetSneaker returns one sneaker with the caller's item state.
func (s *CatalogService) GetSneaker(ctx context.Context, actor session.Identity, id uint) (*SneakerDetail, error) {
	sneaker, err := s.store.Repos().Sneakers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := s.collection.ItemState(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return &SneakerDetail{Sneaker: sneaker, State: state}, nil
}

// ListUsers returns users whose username contains q, leaving out the caller.
func (s *CatalogService) ListUsers(ctx context.Context, actor session.Identity, q string, limit, offset int) ([]models.User, error) {
	return s.store.Repos().Users.Search(ctx, q, actor.UserID, limit, offset)
}
