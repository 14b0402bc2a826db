package service

import (
	"context"
	"testing"

	"sneakercloset/internal/models"
	"sneakercloset/internal/repository"
	"sneakercloset/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSocialService(users *userRepoStub, follows *followRepoStub) *SocialService {
	return NewSocialService(&storeStub{repos: repository.Repositories{Users: users, Follows: follows}})
}

func TestSocialServiceFollowRequiresLogin(t *testing.T) {
	svc := newSocialService(noopUserRepo(), noopFollowRepo())
	assertCode(t, svc.Follow(context.Background(), session.Identity{}, 2), models.CodeUnauthorized)
	assertCode(t, svc.Unfollow(context.Background(), session.Identity{}, 2), models.CodeUnauthorized)
}

func TestSocialServiceFollowSelf(t *testing.T) {
	follows := noopFollowRepo()
	follows.createFn = func(context.Context, *models.Follow) (bool, error) {
		t.Fatal("self-follow must not reach the repository")
		return false, nil
	}
	svc := newSocialService(noopUserRepo(), follows)
	assertCode(t, svc.Follow(context.Background(), session.Identity{UserID: 3}, 3), models.CodeValidation)
}

func TestSocialServiceFollowUnknownTarget(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}
	svc := newSocialService(users, noopFollowRepo())
	assertCode(t, svc.Follow(context.Background(), session.Identity{UserID: 1}, 99), models.CodeNotFound)
	assertCode(t, svc.Unfollow(context.Background(), session.Identity{UserID: 1}, 99), models.CodeNotFound)
	_, err := svc.Followers(context.Background(), 99)
	assertCode(t, err, models.CodeNotFound)
}

func TestSocialServiceFollowDuplicateIsNoop(t *testing.T) {
	follows := noopFollowRepo()
	var created []models.Follow
	follows.createFn = func(_ context.Context, f *models.Follow) (bool, error) {
		created = append(created, *f)
		return len(created) == 1, nil
	}
	svc := newSocialService(noopUserRepo(), follows)

	require.NoError(t, svc.Follow(context.Background(), session.Identity{UserID: 1}, 2))
	require.NoError(t, svc.Follow(context.Background(), session.Identity{UserID: 1}, 2))
	assert.Equal(t, models.Follow{FollowerID: 1, FollowedID: 2}, created[0])
}

func TestSocialServiceMembershipDirections(t *testing.T) {
	follows := noopFollowRepo()
	follows.existsFn = func(_ context.Context, follower, followed uint) (bool, error) {
		return follower == 1 && followed == 2, nil
	}
	svc := newSocialService(noopUserRepo(), follows)
	ctx := context.Background()

	ok, err := svc.IsFollowing(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsFollowedBy(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.IsFollowedBy(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
