// Package metrics exposes the server's Prometheus instrumentation: tick
// duration, connected players, and replication volume.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Server is the fixed set of metrics the server package updates on every
// tick, join/disconnect, queued action and path request.
type Server struct {
	TickDuration      prometheus.Histogram
	ConnectedPlayers  prometheus.Gauge
	DeltasSent        prometheus.Counter
	DeltaBytesSent    prometheus.Counter
	ActionsQueued     *prometheus.CounterVec
	PathfindsTotal    *prometheus.CounterVec
}

// NewServer registers every metric against registry and returns the
// collector. Pass prometheus.DefaultRegisterer for the global registry, or
// a fresh prometheus.NewRegistry() to isolate a test server's metrics.
func NewServer(registry prometheus.Registerer) *Server {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Server{
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "netcode",
			Subsystem: "server",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of one simulation tick.",
			Buckets:   prometheus.DefBuckets,
		}),
		ConnectedPlayers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "netcode",
			Subsystem: "server",
			Name:      "connected_players",
			Help:      "Current number of connected players.",
		}),
		DeltasSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "netcode",
			Subsystem: "server",
			Name:      "deltas_sent_total",
			Help:      "Total EntityDelta records sent across all DeltaUpdate messages.",
		}),
		DeltaBytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "netcode",
			Subsystem: "server",
			Name:      "delta_bytes_sent_total",
			Help:      "Total encoded byte size of DeltaUpdate messages sent.",
		}),
		ActionsQueued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netcode",
			Subsystem: "server",
			Name:      "actions_queued_total",
			Help:      "Actions accepted onto an entity's action queue, by kind.",
		}, []string{"kind"}),
		PathfindsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "netcode",
			Subsystem: "server",
			Name:      "pathfinds_total",
			Help:      "RequestPath resolutions, by outcome (found/not_found).",
		}, []string{"outcome"}),
	}
}
