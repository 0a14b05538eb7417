package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shubm18/Poll-Battel/internal/domain"
	"github.com/shubm18/Poll-Battel/internal/metrics"
	"github.com/shubm18/Poll-Battel/internal/poll"
	"github.com/shubm18/Poll-Battel/internal/registry"
	"github.com/shubm18/Poll-Battel/internal/room"
	"github.com/shubm18/Poll-Battel/internal/router"
)

const (
	commandQueueSize = 1024
	commandTimeout   = 5 * time.Second
	stopTimeout      = 10 * time.Second
	depthInterval    = 1 * time.Second
	shutdownReason   = "Server shutting down"
)

// ErrStopped is returned by queries made after Stop.
var ErrStopped = errors.New("hub stopped")

type hubCmd interface{ isHubCmd() }

type baseHubCmd struct{}

func (baseHubCmd) isHubCmd() {}

type connectCmd struct {
	baseHubCmd
	ctx  context.Context
	conn domain.Connection
}

type frameCmd struct {
	baseHubCmd
	conn domain.Connection
	data []byte
}

type disconnectCmd struct {
	baseHubCmd
	conn domain.Connection
}

type statsCmd struct {
	baseHubCmd
	reply chan Stats
}

type stopCmd struct {
	baseHubCmd
}

// Stats is a point-in-time view of the event loop's state.
type Stats struct {
	Connections int
	Rooms       int
}

// gracefulCloser is implemented by connections that can send a close frame.
type gracefulCloser interface {
	CloseGraceful(reason string)
}

type Hub struct {
	cmdCh    chan hubCmd
	done     chan struct{}
	clock    clockwork.Clock
	router   *router.Router
	polls    *poll.Coordinator
	rooms    *room.Store
	registry *registry.Registry
	metrics  *metrics.HubMetrics
	// contexts carries the per-connection logging context (correlation id).
	contexts map[uuid.UUID]context.Context
}

// NewHub starts the event loop goroutine.
func NewHub(r *router.Router, polls *poll.Coordinator, rooms *room.Store, reg *registry.Registry, clock clockwork.Clock, m *metrics.HubMetrics) *Hub {
	h := &Hub{
		cmdCh:    make(chan hubCmd, commandQueueSize),
		done:     make(chan struct{}),
		clock:    clock,
		router:   r,
		polls:    polls,
		rooms:    rooms,
		registry: reg,
		metrics:  m,
		contexts: make(map[uuid.UUID]context.Context),
	}
	go h.run()
	return h
}

// Connect registers a connection. ctx is used for all log lines about it.
func (h *Hub) Connect(ctx context.Context, conn domain.Connection) {
	h.enqueue(connectCmd{ctx: ctx, conn: conn})
}

// Deliver hands one inbound text frame to the event loop.
func (h *Hub) Deliver(conn domain.Connection, data []byte) {
	h.enqueue(frameCmd{conn: conn, data: data})
}

// Disconnect reports a closed connection. It is handled like leave_room.
func (h *Hub) Disconnect(conn domain.Connection) {
	h.enqueue(disconnectCmd{conn: conn})
}

// Stats asks the event loop for its counts. An error means the loop is
// stopped or did not answer within the command timeout.
func (h *Hub) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if !h.enqueue(statsCmd{reply: reply}) {
		return Stats{}, ErrStopped
	}

	timer := h.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case s := <-reply:
		return s, nil
	case <-h.done:
		return Stats{}, ErrStopped
	case <-ctx.Done():
		return Stats{}, fmt.Errorf("stats: %w", ctx.Err())
	case <-timer.Chan():
		return Stats{}, fmt.Errorf("stats command timed out after %v", commandTimeout)
	}
}

// Stop closes every connection, cancels all countdowns and waits for the
// event loop to exit.
func (h *Hub) Stop() {
	if !h.enqueue(stopCmd{}) {
		return
	}

	timeout := h.clock.NewTimer(stopTimeout)
	defer timeout.Stop()

	select {
	case <-h.done:
		slog.Info("Hub stopped gracefully")
	case <-timeout.Chan():
		slog.Warn("Hub stop timeout exceeded", "timeout", stopTimeout)
		h.metrics.StopTimeouts.Inc()
	}
}

func (h *Hub) enqueue(cmd hubCmd) bool {
	select {
	case h.cmdCh <- cmd:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) run() {
	defer close(h.done)

	depthTicker := h.clock.NewTicker(depthInterval)
	defer depthTicker.Stop()

	for {
		select {
		case <-depthTicker.Chan():
			depth := len(h.cmdCh)
			h.metrics.CommandQueueDepth.Set(float64(depth))
			if depth > commandQueueSize*8/10 {
				slog.Warn("Command channel near capacity", "depth", depth, "capacity", cap(h.cmdCh))
			}

		case cmd := <-h.cmdCh:
			if _, ok := cmd.(stopCmd); ok {
				h.handleStop()
				return
			}
			h.safely(func() { h.handle(cmd) })

		case t := <-h.polls.Ticks():
			h.safely(func() { h.polls.HandleTick(t) })
		}
	}
}

func (h *Hub) handle(cmd hubCmd) {
	switch c := cmd.(type) {
	case connectCmd:
		h.contexts[c.conn.ID()] = c.ctx
		h.router.Connect(c.conn)
		slog.DebugContext(c.ctx, "Connection registered", "connection_id", c.conn.ID(), "connections", h.registry.Len())
	case frameCmd:
		h.router.Handle(h.contextFor(c.conn), c.conn, c.data)
	case disconnectCmd:
		ctx := h.contextFor(c.conn)
		h.router.Disconnect(ctx, c.conn)
		delete(h.contexts, c.conn.ID())
		slog.DebugContext(ctx, "Connection unregistered", "connection_id", c.conn.ID(), "connections", h.registry.Len())
	case statsCmd:
		c.reply <- Stats{Connections: h.registry.Len(), Rooms: h.rooms.Len()}
	default:
		slog.Warn("Hub received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
	}
}

// safely runs fn and keeps the loop alive if it panics.
func (h *Hub) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Hub panic recovered", "panic", r, "stack", string(debug.Stack()))
			h.metrics.Panics.Inc()
		}
	}()
	fn()
}

func (h *Hub) contextFor(conn domain.Connection) context.Context {
	if ctx, ok := h.contexts[conn.ID()]; ok {
		return ctx
	}
	return context.Background()
}

func (h *Hub) handleStop() {
	entries := h.registry.All()
	slog.Info("Hub shutting down", "connections", len(entries), "rooms", h.rooms.Len())

	for _, e := range entries {
		if gc, ok := e.Conn.(gracefulCloser); ok {
			gc.CloseGraceful(shutdownReason)
		} else {
			e.Conn.Close()
		}
		h.registry.Remove(e.Conn.ID())
	}
	h.rooms.CloseAll()
	clear(h.contexts)

	slog.Info("Hub shutdown complete", "disconnected_clients", len(entries))
}
