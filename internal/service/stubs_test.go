package service

import (
	"context"
	"errors"
	"testing"

	"sneakercloset/internal/models"
	"sneakercloset/internal/notifications"
	"sneakercloset/internal/repository"

	"github.com/stretchr/testify/assert"
)

type storeStub struct {
	repos    repository.Repositories
	atomicFn func(context.Context, func(repository.Repositories) error) error
}

func (s *storeStub) Repos() repository.Repositories { return s.repos }
func (s *storeStub) Atomic(ctx context.Context, fn func(repository.Repositories) error) error {
	if s.atomicFn != nil {
		return s.atomicFn(ctx, fn)
	}
	return fn(s.repos)
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	lockByIDFn      func(context.Context, uint) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	searchFn        func(context.Context, string, uint, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) LockByID(ctx context.Context, id uint) (*models.User, error) {
	return s.lockByIDFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) Search(ctx context.Context, q string, excludeID uint, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, q, excludeID, limit, offset)
}

type followRepoStub struct {
	createFn        func(context.Context, *models.Follow) (bool, error)
	deleteFn        func(context.Context, uint, uint) error
	existsFn        func(context.Context, uint, uint) (bool, error)
	listFollowingFn func(context.Context, uint) ([]models.User, error)
	listFollowersFn func(context.Context, uint) ([]models.User, error)
	followerIDsFn   func(context.Context, uint) ([]uint, error)
	countsFn        func(context.Context, uint) (int64, int64, error)
	deleteAllFn     func(context.Context, uint) error
}

func (s *followRepoStub) Create(ctx context.Context, f *models.Follow) (bool, error) {
	return s.createFn(ctx, f)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followedID uint) error {
	return s.deleteFn(ctx, followerID, followedID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followedID)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return s.listFollowingFn(ctx, userID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.listFollowersFn(ctx, userID)
}
func (s *followRepoStub) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followerIDsFn(ctx, userID)
}
func (s *followRepoStub) Counts(ctx context.Context, userID uint) (int64, int64, error) {
	return s.countsFn(ctx, userID)
}
func (s *followRepoStub) DeleteAllForUser(ctx context.Context, userID uint) error {
	return s.deleteAllFn(ctx, userID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		lockByIDFn:      func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		searchFn:        func(context.Context, string, uint, int, int) ([]models.User, error) { return nil, nil },
	}
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:        func(context.Context, *models.Follow) (bool, error) { return true, nil },
		deleteFn:        func(context.Context, uint, uint) error { return nil },
		existsFn:        func(context.Context, uint, uint) (bool, error) { return false, nil },
		listFollowingFn: func(context.Context, uint) ([]models.User, error) { return nil, nil },
		listFollowersFn: func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followerIDsFn:   func(context.Context, uint) ([]uint, error) { return nil, nil },
		countsFn:        func(context.Context, uint) (int64, int64, error) { return 0, 0, nil },
		deleteAllFn:     func(context.Context, uint) error { return nil },
	}
}

type publisherStub struct {
	calls []notifications.CatalogAction
	to    [][]uint
	err   error
}

func (p *publisherStub) PublishCatalogAction(_ context.Context, recipients []uint, action notifications.CatalogAction) error {
	p.calls = append(p.calls, action)
	p.to = append(p.to, recipients)
	return p.err
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err) {
		assert.Equal(t, code, appErr.Code)
	}
}
