package domain

import "github.com/google/uuid"

// Connection is one live transport session as seen by the room and poll layers.
type Connection interface {
	ID() uuid.UUID
	// Send enqueues an encoded frame. Returns false if the frame was not accepted.
	Send(data []byte) bool
	IsOpen() bool
	Close()
}
