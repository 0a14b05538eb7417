package metrics

import "github.com/prometheus/client_golang/prometheus"

// PollMetrics holds Prometheus metrics for the poll state machine.
type PollMetrics struct {
	PollsStarted prometheus.Counter
	PollsEnded   *prometheus.CounterVec
	ActivePolls  prometheus.Gauge
	Votes        *prometheus.CounterVec
}

// NewPollMetrics creates and registers poll metrics on the given registry.
func NewPollMetrics(reg prometheus.Registerer) *PollMetrics {
	m := &PollMetrics{
		PollsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "polls",
			Name:      "started_total",
			Help:      "Total number of polls started.",
		}),
		PollsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "polls",
			Name:      "ended_total",
			Help:      "Total number of polls ended, by reason.",
		}, []string{"reason"}),
		ActivePolls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "polls",
			Name:      "active",
			Help:      "Number of polls with a running countdown.",
		}),
		Votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "polls",
			Name:      "votes_total",
			Help:      "Total number of votes received, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.PollsStarted, m.PollsEnded, m.ActivePolls, m.Votes)
	return m
}
