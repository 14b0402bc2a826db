// Package notifications fans catalog activity out to followers over Redis
// pub/sub and delivers it to their open websocket connections.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"sneakercloset/internal/middleware"
	"sneakercloset/internal/observability"

	"github.com/redis/go-redis/v9"
)

const (
	userChannelPrefix  = "notifications:user:"
	userChannelPattern = userChannelPrefix + "*"

	// EventCatalogAction is the event type for closet and wishlist additions.
	EventCatalogAction = "catalog_action"
)

// Event is the envelope written to a user's channel.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// CatalogAction describes a sneaker added to someone's closet or wishlist.
type CatalogAction struct {
	ActorID     uint      `json:"actor_id"`
	Username    string    `json:"username"`
	Action      string    `json:"action"`
	SneakerID   uint      `json:"sneaker_id"`
	SneakerName string    `json:"sneaker_name"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishCatalogAction sends action to every recipient. It keeps going past
// individual failures and returns the first one.
func (n *Notifier) PublishCatalogAction(ctx context.Context, recipients []uint, action CatalogAction) error {
	if n == nil || n.rdb == nil || len(recipients) == 0 {
		return nil
	}
	data, err := json.Marshal(Event{Type: EventCatalogAction, Payload: action})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	var firstErr error
	for _, userID := range recipients {
		if err := n.PublishUser(ctx, userID, string(data)); err != nil {
			observability.NotificationsPublished.WithLabelValues("error").Inc()
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		observability.NotificationsPublished.WithLabelValues("ok").Inc()
	}
	return firstErr
}

// StartPatternSubscriber subscribes to every user channel and calls onMessage
// for each incoming message until ctx is cancelled.
func (n *Notifier) StartPatternSubscriber(ctx context.Context, onMessage func(channel string, payload string)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPattern)
	// Wait for the subscription confirmation so publishes after return are seen.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", userChannelPattern, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in notification subscriber",
								"panic", r, "stack", string(debug.Stack()))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return userChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}

// ParseUserChannel extracts the user id from a channel built by UserChannel.
func ParseUserChannel(channel string) (uint, bool) {
	raw, ok := strings.CutPrefix(channel, userChannelPrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
