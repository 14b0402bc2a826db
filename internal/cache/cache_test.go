package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideWithoutClientAlwaysFetches(t *testing.T) {
	SetClient(nil)
	calls := 0
	var dest item
	for i := 0; i < 2; i++ {
		err := Aside(context.Background(), SneakerKey(1), &dest, SneakerTTL, func() error {
			calls++
			dest = item{ID: 1, Name: "Dunk"}
			return nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

func TestAsideHitsCacheAfterFirstFetch(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *item) func() error {
		return func() error {
			calls++
			*dest = item{ID: 7, Name: "Jordan 1"}
			return nil
		}
	}

	var first item
	require.NoError(t, Aside(ctx, SneakerKey(7), &first, SneakerTTL, fetch(&first)))
	var second item
	require.NoError(t, Aside(ctx, SneakerKey(7), &second, SneakerTTL, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "Jordan 1", second.Name)
	assert.True(t, mr.Exists("sneaker:7"))

	mr.FastForward(SneakerTTL + time.Second)
	assert.False(t, mr.Exists("sneaker:7"))
}

func TestAsideFetchErrorIsNotCached(t *testing.T) {
	mr := withMiniredis(t)
	var dest item
	err := Aside(context.Background(), UserKey(3), &dest, UserTTL, func() error {
		return errors.New("not found")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("user:3"))
}

func TestAsideSurvivesCorruptEntry(t *testing.T) {
	mr := withMiniredis(t)
	require.NoError(t, mr.Set("user:5", "{not json"))

	var dest item
	err := Aside(context.Background(), UserKey(5), &dest, UserTTL, func() error {
		dest = item{ID: 5, Name: "bob"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", dest.Name)
}

func TestInvalidateUser(t *testing.T) {
	mr := withMiniredis(t)
	require.NoError(t, mr.Set("user:9", `{"id":9}`))
	InvalidateUser(context.Background(), 9)
	assert.False(t, mr.Exists("user:9"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "user:4", UserKey(4))
	assert.Equal(t, "sneaker:12", SneakerKey(12))
	assert.Equal(t, "session:revoked:abc", RevokedKey("abc"))
	assert.Equal(t, "sneaker", keyFamily("sneaker:12"))
}
