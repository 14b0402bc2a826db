package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerTransitions counts closet/wishlist/rotation actions by outcome.
	LedgerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sneakercloset_ledger_transitions_total",
		Help: "Closet, wishlist and rotation actions by outcome",
	}, []string{"action", "outcome"})

	// NotificationsPublished counts live feed events pushed to Redis.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sneakercloset_notifications_published_total",
		Help: "Live feed events published, by result",
	}, []string{"result"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sneakercloset_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// CacheLookups counts cache-aside lookups by key family and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sneakercloset_cache_lookups_total",
		Help: "Cache-aside lookups by key family and result",
	}, []string{"family", "result"})
)
