package poll

import (
	"context"
	"time"

	"github.com/shubm18/Poll-Battel/internal/domain"
)

const (
	tickInterval   = 1 * time.Second
	tickBufferSize = 256
)

// Tick is one countdown step for a specific poll instance.
type Tick struct {
	RoomCode string
	Poll     *domain.Poll
}

// startCountdown schedules the per-second ticks of p. The ticker is created
// before returning so clock advances made right after Start are observed.
// The cancel func is owned by the poll and invoked by Poll.Close.
func (c *Coordinator) startCountdown(code string, p *domain.Poll) {
	ctx, cancel := context.WithCancel(context.Background())
	p.AttachCountdown(cancel)

	ticker := c.clock.NewTicker(tickInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				if ctx.Err() != nil {
					return
				}
				select {
				case c.ticks <- Tick{RoomCode: code, Poll: p}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}
