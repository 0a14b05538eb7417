package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shubm18/Poll-Battel/internal/domain"
	"github.com/shubm18/Poll-Battel/internal/metrics"
	"github.com/shubm18/Poll-Battel/internal/platform/retry"
)

const (
	channelPrefix    = "livepoll:events:"
	publishQueueSize = 256
	publishTimeout   = 5 * time.Second
)

// Channel returns the pub/sub channel carrying events for a room.
func Channel(roomCode string) string {
	return channelPrefix + roomCode
}

type publishClient interface {
	Publish(ctx context.Context, channel string, message any) *goredis.IntCmd
}

// Publisher implements domain.EventPublisher on Redis pub/sub.
type Publisher struct {
	client  publishClient
	metrics *metrics.PublisherMetrics
	policy  retry.Policy

	queue     chan domain.RoomEvent
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var _ domain.EventPublisher = (*Publisher)(nil)

func NewPublisher(client *goredis.Client, m *metrics.PublisherMetrics) *Publisher {
	return newPublisher(client, m, retry.Policy{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
	})
}

func newPublisher(client publishClient, m *metrics.PublisherMetrics, policy retry.Policy) *Publisher {
	p := &Publisher{
		client:  client,
		metrics: m,
		policy:  policy,
		queue:   make(chan domain.RoomEvent, publishQueueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	p.policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.Debug("Retrying event publish", "attempt", attempt, "backoff", backoff, "error", err)
	}
	go p.run()
	return p
}

// Publish queues the event without blocking. Events are dropped when the queue is full.
func (p *Publisher) Publish(ctx context.Context, event domain.RoomEvent) {
	select {
	case p.queue <- event:
	default:
		p.metrics.EventsDropped.Inc()
		slog.WarnContext(ctx, "Event queue full, dropping event", "kind", event.Kind, "room_code", event.RoomCode)
	}
}

// Close stops the background sender after flushing queued events.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.stop)
		<-p.done
	})
}

func (p *Publisher) run() {
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			p.drain()
			return
		case event := <-p.queue:
			p.send(event)
		}
	}
}

func (p *Publisher) drain() {
	for {
		select {
		case event := <-p.queue:
			p.send(event)
		default:
			return
		}
	}
}

func (p *Publisher) send(event domain.RoomEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.metrics.EventsPublished.WithLabelValues(event.Kind, "error").Inc()
		slog.Error("Failed to encode event", "kind", event.Kind, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = retry.DoVoid(ctx, p.policy, classifyPublishError, func(ctx context.Context) error {
		return p.client.Publish(ctx, Channel(event.RoomCode), payload).Err()
	})
	if err != nil {
		p.metrics.EventsPublished.WithLabelValues(event.Kind, "error").Inc()
		slog.Warn("Failed to publish event",
			"kind", event.Kind,
			"room_code", event.RoomCode,
			"error", fmt.Errorf("publish %s: %w", event.Kind, err),
		)
		return
	}
	p.metrics.EventsPublished.WithLabelValues(event.Kind, "success").Inc()
}

func classifyPublishError(err error) retry.Action {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return retry.Stop
	}
	return retry.Retry
}
