// Package router decodes inbound protocol frames and dispatches them to the
// Room Store and Poll Coordinator.
//
// All methods must be called from the event loop goroutine.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/shubm18/Poll-Battel/internal/domain"
	"github.com/shubm18/Poll-Battel/internal/metrics"
	apperrors "github.com/shubm18/Poll-Battel/internal/platform/errors"
	"github.com/shubm18/Poll-Battel/internal/poll"
	"github.com/shubm18/Poll-Battel/internal/registry"
	"github.com/shubm18/Poll-Battel/internal/room"
)

// Client-facing error texts.
const (
	msgInvalidJSON    = "Invalid JSON format"
	msgInvalidPayload = "Invalid payload"
	msgUnknownType    = "Unknown message type"
	msgRoomNotFound   = "Room not found"
	msgRoomClosed     = "Room closed"
	msgNameTaken      = "Username already taken"
	msgInvalidPoll    = "Poll needs a question and exactly two options"
	msgPollActive     = "A poll is already active"
	msgInternal       = "Internal server error"
)

const (
	frameTypeMalformed = "malformed"
	frameTypeUnknown   = "unknown"
)

type sender interface {
	Broadcast(room *domain.Room, msg domain.Message) int
	Send(conn domain.Connection, msg domain.Message) bool
}

type Router struct {
	registry *registry.Registry
	rooms    *room.Store
	polls    *poll.Coordinator
	sender   sender
	metrics  *metrics.WebSocketMetrics
}

func New(reg *registry.Registry, rooms *room.Store, polls *poll.Coordinator, s sender, m *metrics.WebSocketMetrics) *Router {
	r := &Router{
		registry: reg,
		rooms:    rooms,
		polls:    polls,
		sender:   s,
		metrics:  m,
	}
	rooms.OnClose(r.handleRoomClosed)
	return r
}

// Connect registers a new connection with no room binding.
func (r *Router) Connect(conn domain.Connection) {
	r.registry.Add(conn)
}

// Handle processes one inbound text frame from conn.
func (r *Router) Handle(ctx context.Context, conn domain.Connection, data []byte) {
	entry := r.registry.Add(conn)

	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.metrics.FramesReceived.WithLabelValues(frameTypeMalformed).Inc()
		r.reply(ctx, conn, apperrors.ProtocolError(msgInvalidJSON))
		return
	}

	var err error
	switch env.Type {
	case domain.TypeCreateRoom:
		err = r.createRoom(ctx, entry, env.Payload)
	case domain.TypeJoinRoom:
		err = r.joinRoom(ctx, entry, env.Payload)
	case domain.TypeStartPoll:
		err = r.startPoll(entry, env.Payload)
	case domain.TypeVote:
		err = r.vote(ctx, entry, env.Payload)
	case domain.TypeEndPoll:
		err = r.endPoll(entry, env.Payload)
	case domain.TypeLeaveRoom:
		err = r.leaveRoom(ctx, entry, env.Payload)
	default:
		r.metrics.FramesReceived.WithLabelValues(frameTypeUnknown).Inc()
		slog.DebugContext(ctx, "Unknown message type", "type", env.Type)
		r.reply(ctx, conn, apperrors.ProtocolError(msgUnknownType))
		return
	}

	r.metrics.FramesReceived.WithLabelValues(env.Type).Inc()
	if err != nil {
		r.reply(ctx, conn, toClientError(err).WithContext("type", env.Type))
	}
}

// Disconnect is leave_room for a closed connection, followed by unregistering it.
func (r *Router) Disconnect(ctx context.Context, conn domain.Connection) {
	if entry, ok := r.registry.Get(conn.ID()); ok {
		r.leave(ctx, entry)
	}
	r.registry.Remove(conn.ID())
}

func (r *Router) createRoom(ctx context.Context, entry *registry.Entry, raw json.RawMessage) error {
	var p domain.CreateRoomPayload
	if err := decodePayload(raw, &p); err != nil || strings.TrimSpace(p.Username) == "" {
		return errInvalidPayload
	}

	r.leave(ctx, entry)

	created := r.rooms.Create(p.Username, p.Avatar, entry.Conn)
	r.registry.Bind(entry.Conn.ID(), created.Code, p.Username)
	slog.InfoContext(ctx, "Room created by connection", "room_code", created.Code, "connection_id", entry.Conn.ID())

	r.sender.Send(entry.Conn, domain.Message{
		Type:    domain.TypeRoomCreated,
		Payload: domain.RoomCreated{RoomCode: created.Code},
	})
	return nil
}

func (r *Router) joinRoom(ctx context.Context, entry *registry.Entry, raw json.RawMessage) error {
	var p domain.JoinRoomPayload
	if err := decodePayload(raw, &p); err != nil || strings.TrimSpace(p.Username) == "" {
		return errInvalidPayload
	}
	code := room.NormalizeCode(p.RoomCode)
	prevCode, prevName := entry.RoomCode, entry.Username

	// A failed join leaves the current membership untouched.
	joined, _, err := r.rooms.Join(code, p.Username, p.Avatar, entry.Conn)
	if err != nil {
		return err
	}
	if prevCode != "" {
		r.registry.Unbind(entry.Conn.ID())
		r.depart(ctx, prevCode, prevName)
	}
	r.registry.Bind(entry.Conn.ID(), code, p.Username)
	slog.InfoContext(ctx, "Joined room", "room_code", code, "username", p.Username, "members", len(joined.Members))

	r.sender.Broadcast(joined, domain.Message{Type: domain.TypeRoomJoined, Payload: joined.Snapshot()})
	return nil
}

func (r *Router) startPoll(entry *registry.Entry, raw json.RawMessage) error {
	var p domain.StartPollPayload
	if err := decodePayload(raw, &p); err != nil {
		return errInvalidPayload
	}
	if !entry.InRoom() {
		return nil
	}
	return r.polls.Start(entry.RoomCode, p.Question, p.Options)
}

func (r *Router) vote(ctx context.Context, entry *registry.Entry, raw json.RawMessage) error {
	var p domain.VotePayload
	if err := decodePayload(raw, &p); err != nil {
		return errInvalidPayload
	}
	if !entry.InRoom() {
		return nil
	}
	index, ok := optionIndex(p.OptionIndex)
	if !ok {
		slog.DebugContext(ctx, "Vote ignored, bad option index", "room_code", entry.RoomCode, "option_index", string(p.OptionIndex))
		return nil
	}
	r.polls.Vote(entry.RoomCode, index)
	return nil
}

func (r *Router) endPoll(entry *registry.Entry, raw json.RawMessage) error {
	var p domain.RoomRefPayload
	if err := decodePayload(raw, &p); err != nil {
		return errInvalidPayload
	}
	if entry.InRoom() {
		r.polls.End(entry.RoomCode)
	}
	return nil
}

func (r *Router) leaveRoom(ctx context.Context, entry *registry.Entry, raw json.RawMessage) error {
	var p domain.RoomRefPayload
	if err := decodePayload(raw, &p); err != nil {
		return errInvalidPayload
	}
	r.leave(ctx, entry)
	return nil
}

// leave removes the connection from its current room, if any, and tells the
// remaining members. The leaver gets nothing.
func (r *Router) leave(ctx context.Context, entry *registry.Entry) {
	if !entry.InRoom() {
		return
	}
	code, username := entry.RoomCode, entry.Username
	r.registry.Unbind(entry.Conn.ID())
	r.depart(ctx, code, username)
}

func (r *Router) depart(ctx context.Context, code, username string) {
	remaining, deleted := r.rooms.RemoveMember(code, username)
	slog.InfoContext(ctx, "Left room", "room_code", code, "username", username, "room_deleted", deleted)
	if remaining == nil {
		return
	}

	r.sender.Broadcast(remaining, domain.Message{
		Type: domain.TypeUserLeft,
		Payload: domain.UserLeft{
			RoomCode: code,
			Username: username,
			Users:    remaining.Users(),
		},
	})
}

// handleRoomClosed detaches connections still bound to a room that left the
// store with members in it. That only happens when a new room took its code.
func (r *Router) handleRoomClosed(closed *domain.Room) {
	for _, m := range closed.Members {
		entry, ok := r.registry.Get(m.Conn.ID())
		if !ok || entry.RoomCode != closed.Code || entry.Username != m.Username {
			continue
		}
		r.registry.Unbind(m.Conn.ID())
		r.reply(context.Background(), m.Conn, apperrors.NotFoundError(msgRoomClosed))
	}
}

func (r *Router) reply(ctx context.Context, conn domain.Connection, e *apperrors.Error) {
	r.metrics.ProtocolErrors.WithLabelValues(string(e.Type)).Inc()
	attrs := []any{"connection_id", conn.ID(), "error_type", e.Type, "message", e.Message}
	for k, v := range e.Context {
		attrs = append(attrs, k, v)
	}
	if e.Type == apperrors.TypeInternal {
		slog.ErrorContext(ctx, "Command failed", append(attrs, "cause", e.Cause)...)
	} else {
		slog.DebugContext(ctx, "Command rejected", attrs...)
	}
	r.sender.Send(conn, domain.NewErrorMessage(e.Message))
}

var errInvalidPayload = apperrors.ValidationError(msgInvalidPayload)

// toClientError maps domain failures onto the fixed client-facing texts.
func toClientError(err error) *apperrors.Error {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound):
		return apperrors.NotFoundError(msgRoomNotFound)
	case errors.Is(err, domain.ErrNameTaken):
		return apperrors.ConflictError(msgNameTaken)
	case errors.Is(err, domain.ErrInvalidPollInput):
		return apperrors.ValidationError(msgInvalidPoll)
	case errors.Is(err, domain.ErrPollActive):
		return apperrors.ConflictError(msgPollActive)
	}

	var structured *apperrors.Error
	if errors.As(err, &structured) {
		// Copy so per-frame context never leaks into shared sentinels.
		return &apperrors.Error{Type: structured.Type, Message: structured.Message, Cause: structured.Cause}
	}
	return apperrors.InternalError(msgInternal, err)
}

// decodePayload treats a missing payload as an empty object.
func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// optionIndex accepts any JSON number with an integral value.
func optionIndex(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
