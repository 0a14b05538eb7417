package broadcast

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/shubm18/Poll-Battel/internal/domain"
	"github.com/shubm18/Poll-Battel/internal/metrics"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 30 * time.Second
	pongDeadline      = 60 * time.Second
	messageBufferSize = 32
)

var _ domain.Connection = (*Client)(nil)

// Client is one WebSocket connection with its own writer goroutine.
type Client struct {
	id          uuid.UUID
	connection  *websocket.Conn
	clock       clockwork.Clock
	metrics     *metrics.WebSocketMetrics
	sendChannel chan []byte
	doneChannel chan struct{}
	open        atomic.Bool
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func NewClient(connection *websocket.Conn, clock clockwork.Clock, m *metrics.WebSocketMetrics) *Client {
	c := &Client{
		id:          uuid.New(),
		connection:  connection,
		clock:       clock,
		metrics:     m,
		sendChannel: make(chan []byte, messageBufferSize),
		doneChannel: make(chan struct{}),
	}
	c.open.Store(true)
	c.configurePongHandler()
	c.wg.Add(1)
	go c.run()
	return c
}

func (c *Client) ID() uuid.UUID {
	return c.id
}

func (c *Client) IsOpen() bool {
	return c.open.Load()
}

// Send enqueues data without blocking. A full buffer means the peer is not
// keeping up; the connection is closed and the read loop reports the leave.
func (c *Client) Send(data []byte) bool {
	if !c.open.Load() {
		return false
	}
	select {
	case c.sendChannel <- data:
		return true
	default:
		c.metrics.SlowClients.Inc()
		c.Close()
		return false
	}
}

// Close shuts the connection down without waiting for the writer.
func (c *Client) Close() {
	c.stopOnce.Do(func() {
		c.open.Store(false)
		close(c.doneChannel)
		_ = c.connection.Close()
	})
}

// CloseGraceful sends a close frame with reason before closing.
func (c *Client) CloseGraceful(reason string) {
	c.stopOnce.Do(func() {
		c.open.Store(false)
		close(c.doneChannel)

		// the writer must be gone before we touch the connection
		c.wg.Wait()

		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		c.updateWriteDeadline()
		_ = c.connection.WriteMessage(websocket.CloseMessage, closeMsg)
		_ = c.connection.Close()
	})
}

func (c *Client) run() {
	ticker := c.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.wg.Done()

	for {
		select {
		case msg := <-c.sendChannel:
			c.updateWriteDeadline()
			if err := c.connection.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.Chan():
			c.updateWriteDeadline()
			if err := c.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.doneChannel:
			return
		}
	}
}

func (c *Client) configurePongHandler() {
	c.updateReadDeadline()
	c.connection.SetPongHandler(func(string) error {
		c.updateReadDeadline()
		return nil
	})
}

// Touch extends the read deadline after an inbound frame.
func (c *Client) Touch() {
	c.updateReadDeadline()
}

func (c *Client) updateWriteDeadline() {
	_ = c.connection.SetWriteDeadline(c.clock.Now().Add(writeDeadline))
}

func (c *Client) updateReadDeadline() {
	_ = c.connection.SetReadDeadline(c.clock.Now().Add(pongDeadline))
}
