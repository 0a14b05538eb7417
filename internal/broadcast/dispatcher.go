package broadcast

import (
	"encoding/json"
	"log/slog"

	"github.com/shubm18/Poll-Battel/internal/domain"
	"github.com/shubm18/Poll-Battel/internal/metrics"
)

// Dispatcher encodes messages and hands them to member connections.
type Dispatcher struct {
	metrics *metrics.WebSocketMetrics
}

func NewDispatcher(m *metrics.WebSocketMetrics) *Dispatcher {
	return &Dispatcher{metrics: m}
}

// Broadcast delivers msg to every open member connection of room, in join
// order. Closed connections are skipped, not removed. Returns the number of
// connections that accepted the frame.
func (d *Dispatcher) Broadcast(room *domain.Room, msg domain.Message) int {
	if room == nil {
		return 0
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal broadcast message", "type", msg.Type, "error", err)
		return 0
	}

	delivered := 0
	for _, m := range room.Members {
		if d.deliver(m.Conn, data) {
			delivered++
		}
	}
	return delivered
}

// Send delivers msg to a single connection.
func (d *Dispatcher) Send(conn domain.Connection, msg domain.Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("Failed to marshal message", "type", msg.Type, "error", err)
		return false
	}
	return d.deliver(conn, data)
}

func (d *Dispatcher) deliver(conn domain.Connection, data []byte) bool {
	if conn == nil || !conn.IsOpen() {
		d.metrics.MessagesDropped.Inc()
		return false
	}
	if !conn.Send(data) {
		d.metrics.MessagesDropped.Inc()
		return false
	}
	d.metrics.MessagesSent.Inc()
	return true
}
