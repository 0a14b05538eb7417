package broadcast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shubm18/Poll-Battel/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConnPair returns the server and client ends of one WebSocket connection.
func newTestConnPair(t *testing.T) (server *ws.Conn, client *ws.Conn) {
	t.Helper()
	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	ready := make(chan *ws.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		ready <- conn
	}))
	t.Cleanup(func() { srv.Close() })

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-ready
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, clientConn
}

func newTestClient(t *testing.T) (*Client, *ws.Conn) {
	t.Helper()
	server, peer := newTestConnPair(t)
	c := NewClient(server, clockwork.NewRealClock(), metrics.NewWebSocketMetrics(prometheus.NewRegistry()))
	t.Cleanup(c.Close)
	return c, peer
}

func TestClient_SendWritesTextFrame(t *testing.T) {
	c, peer := newTestClient(t)

	require.True(t, c.Send([]byte(`{"type":"timer_update","payload":{"timeRemaining":59}}`)))

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(time.Second)))
	typ, msg, err := peer.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, ws.TextMessage, typ)
	assert.JSONEq(t, `{"type":"timer_update","payload":{"timeRemaining":59}}`, string(msg))
}

func TestClient_PreservesOrder(t *testing.T) {
	c, peer := newTestClient(t)

	for _, m := range []string{`"a"`, `"b"`, `"c"`} {
		require.True(t, c.Send([]byte(m)))
	}

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(time.Second)))
	for _, want := range []string{`"a"`, `"b"`, `"c"`} {
		_, msg, err := peer.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, want, string(msg))
	}
}

func TestClient_CloseRejectsFurtherSends(t *testing.T) {
	c, _ := newTestClient(t)
	assert.True(t, c.IsOpen())

	c.Close()
	c.Close()

	assert.False(t, c.IsOpen())
	assert.False(t, c.Send([]byte(`{}`)))
}

func TestClient_CloseGracefulSendsReason(t *testing.T) {
	c, peer := newTestClient(t)

	c.CloseGraceful("Server shutting down")

	require.NoError(t, peer.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := peer.ReadMessage()
	var closeErr *ws.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, ws.CloseNormalClosure, closeErr.Code)
	assert.Equal(t, "Server shutting down", closeErr.Text)
}

func TestClient_UniqueIDs(t *testing.T) {
	a, _ := newTestClient(t)
	b, _ := newTestClient(t)
	assert.NotEqual(t, a.ID(), b.ID())
}
