package metrics

import "github.com/prometheus/client_golang/prometheus"

// HubMetrics holds Prometheus metrics for the event loop.
type HubMetrics struct {
	CommandQueueDepth prometheus.Gauge
	Panics            prometheus.Counter
	StopTimeouts      prometheus.Counter
}

// NewHubMetrics creates and registers event loop metrics on the given registry.
func NewHubMetrics(reg prometheus.Registerer) *HubMetrics {
	m := &HubMetrics{
		CommandQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "command_queue_depth",
			Help:      "Commands waiting in the event loop queue.",
		}),
		Panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "panics_total",
			Help:      "Panics recovered while handling an event loop command.",
		}),
		StopTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "stop_timeouts_total",
			Help:      "Shutdowns where the event loop did not exit in time.",
		}),
	}

	reg.MustRegister(m.CommandQueueDepth, m.Panics, m.StopTimeouts)
	return m
}
