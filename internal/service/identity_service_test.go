package service

import (
	"context"
	"testing"

	"sneakercloset/internal/models"
	"sneakercloset/internal/repository"
	"sneakercloset/internal/session"
	"sneakercloset/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newIdentityService(t *testing.T) (*IdentityService, *gorm.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	svc := NewIdentityService(repository.NewStore(db))
	svc.cost = bcrypt.MinCost
	return svc, db
}

func register(t *testing.T, svc *IdentityService, username string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Username:  username,
		FirstName: "Sole",
		LastName:  "Collector",
		Email:     username + "@example.com",
		Password:  "secret123",
	})
	require.NoError(t, err)
	return user
}

func TestIdentityServiceRegister(t *testing.T) {
	svc, _ := newIdentityService(t)
	ctx := context.Background()

	user := register(t, svc, "kicks")
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
	assert.Equal(t, models.DefaultImageURL, user.ImageURL)

	_, err := svc.Register(ctx, RegisterInput{
		Username: "kicks", FirstName: "A", LastName: "B", Email: "other@example.com", Password: "secret123",
	})
	assertCode(t, err, models.CodeConflict)

	_, err = svc.Register(ctx, RegisterInput{
		Username: "fresh", FirstName: "A", LastName: "B", Email: "kicks@example.com", Password: "secret123",
	})
	assertCode(t, err, models.CodeConflict)

	_, err = svc.Register(ctx, RegisterInput{
		Username: "x", FirstName: "A", LastName: "B", Email: "x@example.com", Password: "secret123",
	})
	assertCode(t, err, models.CodeValidation)
}

func TestIdentityServiceAuthenticate(t *testing.T) {
	svc, _ := newIdentityService(t)
	ctx := context.Background()
	registered := register(t, svc, "runner")

	user, err := svc.Authenticate(ctx, "runner", "secret123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)

	user, err = svc.Authenticate(ctx, "runner", "wrong-password")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.Authenticate(ctx, "ghost", "secret123")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestIdentityServiceUpdateProfile(t *testing.T) {
	svc, _ := newIdentityService(t)
	ctx := context.Background()
	user := register(t, svc, "editor")
	register(t, svc, "taken")
	actor := session.Identity{UserID: user.ID}

	in := UpdateProfileInput{
		Username:       "editor2",
		FirstName:      "New",
		LastName:       "Name",
		Email:          "editor2@example.com",
		ImageURL:       "",
		HeaderImageURL: "https://img.example.com/h.png",
		SneakerSize:    "10.5",
		Password:       "wrong",
	}
	_, err := svc.UpdateProfile(ctx, actor, in)
	assertCode(t, err, models.CodeUnauthorized)

	in.Password = "secret123"
	updated, err := svc.UpdateProfile(ctx, actor, in)
	require.NoError(t, err)
	assert.Equal(t, "editor2", updated.Username)
	assert.Equal(t, models.DefaultImageURL, updated.ImageURL)
	require.NotNil(t, updated.SneakerSize)
	assert.Equal(t, "10.5", *updated.SneakerSize)

	in.Username = "taken"
	_, err = svc.UpdateProfile(ctx, actor, in)
	assertCode(t, err, models.CodeConflict)

	_, err = svc.UpdateProfile(ctx, session.Identity{}, in)
	assertCode(t, err, models.CodeUnauthorized)

	reloaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "editor2", reloaded.Username, "failed update leaves the previous values")
}

func TestIdentityServiceDeleteCascades(t *testing.T) {
	svc, db := newIdentityService(t)
	ctx := context.Background()
	user := register(t, svc, "leaver")
	friend := register(t, svc, "stayer")
	sneaker := testutil.CreateSneaker(t, db, "Air Force 1", "Nike")

	require.NoError(t, db.Create(&models.ClosetEntry{UserID: user.ID, SneakerID: sneaker.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: user.ID, FollowedID: friend.ID}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: friend.ID, FollowedID: user.ID}).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: user.ID, Message: "hi"}).Error)

	require.NoError(t, svc.Delete(ctx, session.Identity{UserID: user.ID}))

	_, err := svc.GetUser(ctx, user.ID)
	assertCode(t, err, models.CodeNotFound)
	for _, model := range []any{&models.ClosetEntry{}, &models.Follow{}, &models.Notification{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T rows must be removed", model)
	}

	_, err = svc.GetUser(ctx, friend.ID)
	assert.NoError(t, err)

	assertCode(t, svc.Delete(ctx, session.Identity{}), models.CodeUnauthorized)
}

func TestIdentityServiceProfile(t *testing.T) {
	svc, db := newIdentityService(t)
	ctx := context.Background()
	a := register(t, svc, "viewer")
	b := register(t, svc, "viewed")
	require.NoError(t, db.Create(&models.Follow{FollowerID: a.ID, FollowedID: b.ID}).Error)

	view, err := svc.Profile(ctx, session.Identity{UserID: a.ID}, b.ID)
	require.NoError(t, err)
	assert.True(t, view.IsFollowing)
	assert.False(t, view.IsFollowedBy)
	assert.Equal(t, int64(1), view.FollowersCount)
	assert.False(t, view.IsSelf)

	view, err = svc.Profile(ctx, session.Identity{}, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.FollowingCount)
	assert.False(t, view.IsFollowing)

	_, err = svc.Profile(ctx, session.Identity{}, 4040)
	assertCode(t, err, models.CodeNotFound)
}
