package poll

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/shubm18/Poll-Battel/internal/domain"
	"github.com/shubm18/Poll-Battel/internal/metrics"
	"github.com/shubm18/Poll-Battel/internal/room"
)

// End reasons, used for metrics and published events.
const (
	ReasonExpired    = "expired"
	ReasonEnded      = "ended"
	ReasonRoomClosed = "room_closed"
)

type broadcaster interface {
	Broadcast(room *domain.Room, msg domain.Message) int
}

type Coordinator struct {
	rooms       *room.Store
	broadcaster broadcaster
	publisher   domain.EventPublisher
	clock       clockwork.Clock
	metrics     *metrics.PollMetrics
	ticks       chan Tick
}

// NewCoordinator wires the coordinator to the room store. It registers itself
// as the store's close hook so that removing a room stops its countdown.
func NewCoordinator(rooms *room.Store, b broadcaster, publisher domain.EventPublisher, clock clockwork.Clock, m *metrics.PollMetrics) *Coordinator {
	if publisher == nil {
		publisher = domain.NoopPublisher{}
	}
	c := &Coordinator{
		rooms:       rooms,
		broadcaster: b,
		publisher:   publisher,
		clock:       clock,
		metrics:     m,
		ticks:       make(chan Tick, tickBufferSize),
	}
	rooms.OnClose(c.handleRoomClosed)
	return c
}

// Ticks is drained by the event loop; each value goes to HandleTick.
func (c *Coordinator) Ticks() <-chan Tick {
	return c.ticks
}

// Start creates a new active poll in the room and begins its countdown.
func (c *Coordinator) Start(code, question string, options []string) error {
	r, ok := c.rooms.Get(code)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if err := domain.ValidatePollInput(question, options); err != nil {
		return err
	}
	if r.ActivePoll() != nil {
		return domain.ErrPollActive
	}

	p := domain.NewPoll(question, options, c.clock.Now())
	r.Polls = append(r.Polls, p)
	c.startCountdown(code, p)

	c.metrics.PollsStarted.Inc()
	c.metrics.ActivePolls.Inc()
	slog.Info("Poll started", "room_code", code, "question", question, "poll_number", len(r.Polls))

	c.broadcaster.Broadcast(r, domain.Message{
		Type: domain.TypePollStarted,
		Payload: domain.PollStarted{
			Question:      p.Question,
			Options:       p.Options,
			TimeRemaining: p.TimeRemaining,
			StartTime:     p.StartTime.UnixMilli(),
		},
	})
	c.publisher.Publish(context.Background(), domain.RoomEvent{
		Kind:       domain.EventPollStarted,
		RoomCode:   code,
		Question:   p.Question,
		Options:    p.Options,
		OccurredAt: p.StartTime,
	})
	return nil
}

// Vote counts one vote for the room's current poll. Votes for a missing or
// inactive poll, or with an out-of-range index, are ignored.
func (c *Coordinator) Vote(code string, index int) bool {
	r, ok := c.rooms.Get(code)
	if !ok {
		c.metrics.Votes.WithLabelValues("ignored").Inc()
		return false
	}
	p := r.ActivePoll()
	if p == nil || !p.Vote(index) {
		c.metrics.Votes.WithLabelValues("ignored").Inc()
		slog.Debug("Vote ignored", "room_code", code, "option_index", index)
		return false
	}

	c.metrics.Votes.WithLabelValues("accepted").Inc()
	c.broadcaster.Broadcast(r, domain.Message{
		Type:    domain.TypeVoteUpdate,
		Payload: domain.VoteUpdate{Results: copyResults(p.Results)},
	})
	return true
}

// End terminates the room's active poll early. It announces the result the
// same way countdown expiry does. Returns false if there was nothing to end.
func (c *Coordinator) End(code string) bool {
	r, ok := c.rooms.Get(code)
	if !ok {
		return false
	}
	p := r.ActivePoll()
	if p == nil {
		return false
	}
	return c.finish(r, p, ReasonEnded)
}

// HandleTick applies one countdown tick. Ticks for polls that are no longer
// current or active are dropped.
func (c *Coordinator) HandleTick(t Tick) {
	r, ok := c.rooms.Get(t.RoomCode)
	if !ok || r.CurrentPoll() != t.Poll || !t.Poll.Active {
		return
	}

	p := t.Poll
	if p.TimeRemaining > 0 {
		p.TimeRemaining--
	}
	c.broadcaster.Broadcast(r, domain.Message{
		Type:    domain.TypeTimerUpdate,
		Payload: domain.TimerUpdate{TimeRemaining: p.TimeRemaining},
	})

	if p.TimeRemaining == 0 {
		c.finish(r, p, ReasonExpired)
	}
}

func (c *Coordinator) finish(r *domain.Room, p *domain.Poll, reason string) bool {
	if !p.Close() {
		return false
	}

	winner := p.Winner()
	results := copyResults(p.Results)

	c.metrics.PollsEnded.WithLabelValues(reason).Inc()
	c.metrics.ActivePolls.Dec()
	slog.Info("Poll ended", "room_code", r.Code, "reason", reason, "results", results, "winner", winner)

	c.broadcaster.Broadcast(r, domain.Message{
		Type:    domain.TypePollEnded,
		Payload: domain.PollEnded{Results: results, Winner: winner},
	})
	c.publisher.Publish(context.Background(), domain.RoomEvent{
		Kind:       domain.EventPollEnded,
		RoomCode:   r.Code,
		Question:   p.Question,
		Options:    p.Options,
		Results:    results,
		Winner:     winner,
		Reason:     reason,
		OccurredAt: c.clock.Now(),
	})
	return true
}

func (c *Coordinator) handleRoomClosed(r *domain.Room) {
	if p := r.ActivePoll(); p != nil && p.Close() {
		c.metrics.PollsEnded.WithLabelValues(ReasonRoomClosed).Inc()
		c.metrics.ActivePolls.Dec()
		slog.Debug("Countdown cancelled with room", "room_code", r.Code)
	}
	c.publisher.Publish(context.Background(), domain.RoomEvent{
		Kind:       domain.EventRoomClosed,
		RoomCode:   r.Code,
		OccurredAt: c.clock.Now(),
	})
}

func copyResults(results []int) []int {
	out := make([]int, len(results))
	copy(out, results)
	return out
}
