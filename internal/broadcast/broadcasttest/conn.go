package broadcasttest

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Frame is a decoded outbound message captured by Conn.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Conn records every frame sent to it. Test use only.
type Conn struct {
	id uuid.UUID

	mu     sync.Mutex
	frames []Frame
	closed bool
	// Reject makes Send refuse frames while the connection stays open.
	Reject bool
}

func NewConn() *Conn {
	return &Conn{id: uuid.New()}
}

func (c *Conn) ID() uuid.UUID { return c.id }

func (c *Conn) Send(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.Reject {
		return false
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return false
	}
	c.frames = append(c.frames, f)
	return true
}

func (c *Conn) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *Conn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Frames returns a copy of everything received so far.
func (c *Conn) Frames() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Frame, len(c.frames))
	copy(out, c.frames)
	return out
}

// OfType returns the received frames with the given type, in order.
func (c *Conn) OfType(typ string) []Frame {
	var out []Frame
	for _, f := range c.Frames() {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

// Last returns the most recent frame of the given type.
func (c *Conn) Last(typ string) (Frame, bool) {
	frames := c.OfType(typ)
	if len(frames) == 0 {
		return Frame{}, false
	}
	return frames[len(frames)-1], true
}

// Reset drops recorded frames.
func (c *Conn) Reset() {
	c.mu.Lock()
	c.frames = nil
	c.mu.Unlock()
}

// Decode unmarshals the frame payload into v.
func (f Frame) Decode(v any) error {
	return json.Unmarshal(f.Payload, v)
}
