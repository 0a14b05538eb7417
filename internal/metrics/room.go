package metrics

import "github.com/prometheus/client_golang/prometheus"

// RoomMetrics holds Prometheus metrics for room lifecycle.
type RoomMetrics struct {
	ActiveRooms    prometheus.Gauge
	RoomsCreated   prometheus.Counter
	RoomsClosed    prometheus.Counter
	CodeCollisions prometheus.Counter
	JoinsTotal     *prometheus.CounterVec
}

// NewRoomMetrics creates and registers room metrics on the given registry.
func NewRoomMetrics(reg prometheus.Registerer) *RoomMetrics {
	m := &RoomMetrics{
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rooms",
			Name:      "active",
			Help:      "Number of rooms currently held in memory.",
		}),
		RoomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rooms",
			Name:      "created_total",
			Help:      "Total number of rooms created.",
		}),
		RoomsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rooms",
			Name:      "closed_total",
			Help:      "Total number of rooms removed after their last member left.",
		}),
		CodeCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rooms",
			Name:      "code_collisions_total",
			Help:      "Room codes generated that overwrote an existing room.",
		}),
		JoinsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rooms",
			Name:      "joins_total",
			Help:      "Join attempts, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.ActiveRooms, m.RoomsCreated, m.RoomsClosed, m.CodeCollisions, m.JoinsTotal)
	return m
}
