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
)

func TestCatalogServiceSearch(t *testing.T) {
	db := testutil.OpenDB(t)
	store := repository.NewStore(db)
	collection := NewCollectionService(store, nil)
	svc := NewCatalogService(store, collection)
	ctx := context.Background()

	max1 := testutil.CreateSneaker(t, db, "Air Max 1", "Nike")
	testutil.CreateSneaker(t, db, "Air Max 90", "Nike")
	testutil.CreateSneaker(t, db, "Gel-Lyte III", "Asics")

	all, err := svc.ListSneakers(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	hits, err := svc.ListSneakers(ctx, "air MAX", 0, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	none, err := svc.ListSneakers(ctx, "%", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, none, "wildcards in the query match literally")

	user := testutil.CreateUser(t, db, "browser")
	actor := session.Identity{UserID: user.ID}
	_, err = collection.AddToWishlist(ctx, actor, max1.ID)
	require.NoError(t, err)

	detail, err := svc.GetSneaker(ctx, actor, max1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateWishlisted, detail.State)

	detail, err = svc.GetSneaker(ctx, session.Identity{}, max1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateNone, detail.State)

	_, err = svc.GetSneaker(ctx, actor, 404)
	assertCode(t, err, models.CodeNotFound)
}

func TestCatalogServiceListUsersExcludesCaller(t *testing.T) {
	users := noopUserRepo()
	var gotExclude uint
	users.searchFn = func(_ context.Context, q string, exclude uint, _, _ int) ([]models.User, error) {
		gotExclude = exclude
		return []models.User{{ID: 2, Username: q}}, nil
	}
	svc := NewCatalogService(&storeStub{repos: repository.Repositories{Users: users}}, nil)

	got, err := svc.ListUsers(context.Background(), session.Identity{UserID: 7}, "kick", 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, uint(7), gotExclude)
}

func TestFeedServiceNewestFirst(t *testing.T) {
	db := testutil.OpenDB(t)
	store := repository.NewStore(db)
	collection := NewCollectionService(store, nil)
	feed := NewFeedService(store)
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "feeder")
	actor := session.Identity{UserID: user.ID}
	a := testutil.CreateSneaker(t, db, "Kayano", "Asics")
	b := testutil.CreateSneaker(t, db, "Pegasus", "Nike")

	_, err := collection.AddToCloset(ctx, actor, a.ID)
	require.NoError(t, err)
	_, err = collection.AddToWishlist(ctx, actor, b.ID)
	require.NoError(t, err)

	notes, err := feed.NotificationsFor(ctx, actor, 0, 0)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0].Message, "Pegasus to Wishlist")
	assert.Contains(t, notes[1].Message, "Kayano to Closet")

	_, err = feed.NotificationsFor(ctx, session.Identity{}, 0, 0)
	assertCode(t, err, models.CodeUnauthorized)
}
