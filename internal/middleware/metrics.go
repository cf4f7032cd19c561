package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "friendlyvoice_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ActiveWebSockets is the gauge of currently connected DM websocket clients.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "friendlyvoice_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// VocesCreated counts voice posts published to the feed.
	VocesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "friendlyvoice_voces_created_total",
		Help: "Total number of voces posted",
	})

	// DirectMessagesSent counts direct voice messages accepted for delivery.
	DirectMessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "friendlyvoice_direct_messages_sent_total",
		Help: "Total number of direct messages sent",
	})

	// WebSocketDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "friendlyvoice_websocket_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// AvatarGenerations counts avatar generation attempts by outcome.
	AvatarGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "friendlyvoice_avatar_generations_total",
		Help: "Total number of avatar generation attempts by outcome",
	}, []string{"outcome"})
)

var prom *fiberprometheus.FiberPrometheus

// InitMetrics creates the Prometheus HTTP middleware for the service. The
// middleware registers into the default registry, so it is created once and
// reused on subsequent calls.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	if prom == nil {
		prom = fiberprometheus.New(serviceName)
	}
	return prom
}

// MetricsMiddleware returns the Fiber handler for the Prometheus middleware.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
