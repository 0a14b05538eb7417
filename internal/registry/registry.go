// Package registry tracks every live connection together with the room and
// display name it is currently bound to.
//
// The registry is owned by the event loop goroutine and is not safe for
// concurrent use.
package registry

import (
	"github.com/google/uuid"
	"github.com/shubm18/Poll-Battel/internal/domain"
)

// Entry is the registry's view of one connection.
type Entry struct {
	Conn     domain.Connection
	RoomCode string
	Username string
}

// InRoom reports whether the connection has created or joined a room.
func (e *Entry) InRoom() bool {
	return e.RoomCode != ""
}

type Registry struct {
	entries map[uuid.UUID]*Entry
}

func New() *Registry {
	return &Registry{entries: make(map[uuid.UUID]*Entry)}
}

// Add registers a connection with no room binding. Re-adding is a no-op.
func (r *Registry) Add(conn domain.Connection) *Entry {
	if e, ok := r.entries[conn.ID()]; ok {
		return e
	}
	e := &Entry{Conn: conn}
	r.entries[conn.ID()] = e
	return e
}

func (r *Registry) Get(id uuid.UUID) (*Entry, bool) {
	e, ok := r.entries[id]
	return e, ok
}

// Bind associates the connection with a room and display name.
func (r *Registry) Bind(id uuid.UUID, roomCode, username string) {
	if e, ok := r.entries[id]; ok {
		e.RoomCode = roomCode
		e.Username = username
	}
}

// Unbind clears the room association but keeps the connection registered.
func (r *Registry) Unbind(id uuid.UUID) {
	if e, ok := r.entries[id]; ok {
		e.RoomCode = ""
		e.Username = ""
	}
}

// Remove forgets the connection and returns its last entry.
func (r *Registry) Remove(id uuid.UUID) (*Entry, bool) {
	e, ok := r.entries[id]
	if ok {
		delete(r.entries, id)
	}
	return e, ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// All returns every registered entry in no particular order.
func (r *Registry) All() []*Entry {
	out := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out
}
