// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudnine_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ActiveWebSockets is the gauge of active chat websocket connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cloudnine_websocket_connections",
		Help: "Number of active chat WebSocket connections",
	})

	// ChatMessagesTotal counts chat events processed by type.
	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudnine_chat_messages_total",
		Help: "Total chat events processed by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudnine_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})

	// LikeToggles counts like toggle outcomes.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cloudnine_like_toggles_total",
		Help: "Total like toggle operations by outcome",
	}, []string{"outcome"})
)
