package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sneakercloset_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})

	// ActiveWebSockets is the number of open live-feed connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sneakercloset_active_websockets",
		Help: "Number of open WebSocket connections",
	})

	// RateLimitRejections counts requests refused by the Redis limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sneakercloset_rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"resource"})
)

var prom *fiberprometheus.FiberPrometheus

// InitMetrics creates the HTTP metrics collector once per process; fiberprometheus
// registers its collectors globally so repeated construction would panic.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	if prom == nil {
		prom = fiberprometheus.New(serviceName)
	}
	return prom
}

// MetricsMiddleware records request counts and latencies.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
