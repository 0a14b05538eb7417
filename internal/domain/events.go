package domain

import (
	"context"
	"time"
)

// Poll lifecycle event kinds published to external consumers.
const (
	EventPollStarted = "poll_started"
	EventPollEnded   = "poll_ended"
	EventRoomClosed  = "room_closed"
)

// RoomEvent describes a room or poll lifecycle change.
type RoomEvent struct {
	Kind       string    `json:"kind"`
	RoomCode   string    `json:"roomCode"`
	Question   string    `json:"question,omitempty"`
	Options    []string  `json:"options,omitempty"`
	Results    []int     `json:"results,omitempty"`
	Winner     string    `json:"winner,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher forwards room events outside the process. Publish must not block.
type EventPublisher interface {
	Publish(ctx context.Context, event RoomEvent)
}

// NoopPublisher discards events; used when no Redis URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, RoomEvent) {}
