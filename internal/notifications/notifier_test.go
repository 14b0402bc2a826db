package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEventuallyTimeout = time.Second
	testPollInterval      = 10 * time.Millisecond
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNotifierWithoutRedisIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	assert.NoError(t, n.PublishUser(context.Background(), 1, "x"))
	assert.NoError(t, n.PublishCatalogAction(context.Background(), []uint{1, 2}, CatalogAction{}))
	assert.NoError(t, n.StartPatternSubscriber(context.Background(), func(string, string) {}))

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.PublishUser(context.Background(), 1, "x"))
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "notifications:user:1", UserChannel(1))
	assert.Equal(t, "notifications:user:100", UserChannel(100))

	id, ok := ParseUserChannel("notifications:user:42")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"notifications:user:", "notifications:user:abc", "notifications:user:0", "chat:conv:1"} {
		_, ok := ParseUserChannel(bad)
		assert.False(t, ok, bad)
	}
}

func TestPublishCatalogActionReachesEachFollower(t *testing.T) {
	rdb := newRedis(t)
	n := NewNotifier(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan [2]string, 4)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(channel, payload string) {
		got <- [2]string{channel, payload}
	}))

	action := CatalogAction{
		ActorID:     1,
		Username:    "kicks",
		Action:      "closet",
		SneakerID:   9,
		SneakerName: "Air Max 1",
		Message:     "kicks added Air Max 1 to Closet",
	}
	require.NoError(t, n.PublishCatalogAction(ctx, []uint{2, 3}, action))

	channels := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case msg := <-got:
			channels[msg[0]] = true
			var ev struct {
				Type    string        `json:"type"`
				Payload CatalogAction `json:"payload"`
			}
			require.NoError(t, json.Unmarshal([]byte(msg[1]), &ev))
			assert.Equal(t, EventCatalogAction, ev.Type)
			assert.Equal(t, "kicks added Air Max 1 to Closet", ev.Payload.Message)
		case <-time.After(testEventuallyTimeout):
			t.Fatal("timed out waiting for published event")
		}
	}
	assert.True(t, channels["notifications:user:2"])
	assert.True(t, channels["notifications:user:3"])
}

func TestSubscriberRecoversFromHandlerPanic(t *testing.T) {
	rdb := newRedis(t)
	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan string, 2)
	require.NoError(t, n.StartPatternSubscriber(ctx, func(_ string, payload string) {
		calls <- payload
		if payload == "boom" {
			panic("handler failure")
		}
	}))

	require.NoError(t, n.PublishUser(ctx, 5, "boom"))
	require.NoError(t, n.PublishUser(ctx, 5, "after"))

	assert.Eventually(t, func() bool { return len(calls) == 2 }, testEventuallyTimeout, testPollInterval)
}
