// Package room implements the in-memory Room Store.
//
// The store is mutated only from the event loop goroutine, so it carries no
// locks. Rooms exist exactly as long as they have at least one member.
package room

import (
	"log/slog"

	"github.com/shubm18/Poll-Battel/internal/domain"
	"github.com/shubm18/Poll-Battel/internal/metrics"
)

type Store struct {
	rooms   map[string]*domain.Room
	newCode CodeGenerator
	metrics *metrics.RoomMetrics
	// onClose hooks run for every room removed from the store, including
	// rooms overwritten by a colliding code.
	onClose []func(room *domain.Room)
}

func NewStore(newCode CodeGenerator, m *metrics.RoomMetrics) *Store {
	if newCode == nil {
		newCode = RandomCode
	}
	return &Store{
		rooms:   make(map[string]*domain.Room),
		newCode: newCode,
		metrics: m,
	}
}

// OnClose adds a hook called when a room leaves the store. Hooks run in
// registration order.
func (s *Store) OnClose(fn func(room *domain.Room)) {
	s.onClose = append(s.onClose, fn)
}

// Create makes a room whose only member is the caller. There is no retry on a
// colliding code: the previous room is replaced.
func (s *Store) Create(username, avatar string, conn domain.Connection) *domain.Room {
	code := s.newCode()

	if existing, ok := s.rooms[code]; ok {
		slog.Warn("Room code collision, replacing existing room",
			"room_code", code,
			"replaced_members", len(existing.Members),
		)
		s.metrics.CodeCollisions.Inc()
		s.close(existing)
	}

	r := domain.NewRoom(code)
	r.Members = append(r.Members, domain.Member{Username: username, Avatar: avatar, Conn: conn})
	s.rooms[code] = r

	s.metrics.RoomsCreated.Inc()
	s.metrics.ActiveRooms.Set(float64(len(s.rooms)))
	slog.Info("Room created", "room_code", code, "host", username)
	return r
}

// Join appends a member and returns the snapshot a late joiner needs.
func (s *Store) Join(code, username, avatar string, conn domain.Connection) (*domain.Room, domain.RoomSnapshot, error) {
	r, ok := s.rooms[code]
	if !ok {
		s.metrics.JoinsTotal.WithLabelValues("room_not_found").Inc()
		return nil, domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	if r.HasMember(username) {
		s.metrics.JoinsTotal.WithLabelValues("name_taken").Inc()
		return nil, domain.RoomSnapshot{}, domain.ErrNameTaken
	}

	r.Members = append(r.Members, domain.Member{Username: username, Avatar: avatar, Conn: conn})
	s.metrics.JoinsTotal.WithLabelValues("joined").Inc()
	slog.Debug("Member joined", "room_code", code, "username", username, "members", len(r.Members))
	return r, r.Snapshot(), nil
}

// RemoveMember drops username from the room and deletes the room once it is
// empty. Removing an absent member is a no-op. Returns the room (nil if it no
// longer exists) and whether it was deleted by this call.
func (s *Store) RemoveMember(code, username string) (*domain.Room, bool) {
	r, ok := s.rooms[code]
	if !ok {
		return nil, false
	}
	if !r.RemoveMember(username) {
		return r, false
	}
	if len(r.Members) > 0 {
		slog.Debug("Member left", "room_code", code, "username", username, "remaining", len(r.Members))
		return r, false
	}

	delete(s.rooms, code)
	s.close(r)
	s.metrics.RoomsClosed.Inc()
	s.metrics.ActiveRooms.Set(float64(len(s.rooms)))
	slog.Info("Room closed", "room_code", code)
	return nil, true
}

func (s *Store) Get(code string) (*domain.Room, bool) {
	r, ok := s.rooms[code]
	return r, ok
}

func (s *Store) Len() int {
	return len(s.rooms)
}

// CloseAll empties the store, running the close hook for every room.
func (s *Store) CloseAll() {
	for code, r := range s.rooms {
		delete(s.rooms, code)
		s.close(r)
	}
	s.metrics.ActiveRooms.Set(0)
}

func (s *Store) close(r *domain.Room) {
	for _, fn := range s.onClose {
		fn(r)
	}
}
