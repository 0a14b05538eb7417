package metrics

import "github.com/prometheus/client_golang/prometheus"

// PublisherMetrics holds Prometheus metrics for the Redis event publisher.
type PublisherMetrics struct {
	EventsPublished     *prometheus.CounterVec
	EventsDropped       prometheus.Counter
	CircuitBreakerState prometheus.Gauge
	RedisOps            *prometheus.CounterVec
}

// NewPublisherMetrics creates and registers publisher metrics on the given registry.
func NewPublisherMetrics(reg prometheus.Registerer) *PublisherMetrics {
	m := &PublisherMetrics{
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Room events handed to Redis, by kind and status.",
		}, []string{"kind", "status"}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Room events dropped because the publish queue was full.",
		}),
		CircuitBreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "circuit_breaker_state",
			Help:      "Current circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
		RedisOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "operations_total",
			Help:      "Redis operations, by command and status.",
		}, []string{"operation", "status"}),
	}

	reg.MustRegister(m.EventsPublished, m.EventsDropped, m.CircuitBreakerState, m.RedisOps)
	return m
}
