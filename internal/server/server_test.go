package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shubm18/Poll-Battel/internal/app"
	"github.com/shubm18/Poll-Battel/internal/broadcast"
	"github.com/shubm18/Poll-Battel/internal/broadcast/broadcasttest"
	"github.com/shubm18/Poll-Battel/internal/metrics"
	"github.com/shubm18/Poll-Battel/internal/platform/config"
	"github.com/shubm18/Poll-Battel/internal/poll"
	"github.com/shubm18/Poll-Battel/internal/registry"
	"github.com/shubm18/Poll-Battel/internal/room"
	"github.com/shubm18/Poll-Battel/internal/router"
	"github.com/stretchr/testify/require"
)

const frameTimeout = 2 * time.Second

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:                  "test",
		Port:                    "0",
		MaxWebSocketConnections: 100,
		MaxConnectionsPerIP:     100,
		ConnectionRatePerIP:     100,
		ConnectionRateBurst:     100,
	}
}

type testStack struct {
	server    *httptest.Server
	hub       *app.Hub
	wsMetrics *metrics.WebSocketMetrics
}

// newTestStack wires the real event loop behind an httptest server. The real
// clock is used because socket deadlines are derived from it.
func newTestStack(t *testing.T, cfg *config.Config, checks ...HealthCheck) *testStack {
	t.Helper()
	reg := prometheus.NewRegistry()
	clock := clockwork.NewRealClock()

	connections := registry.New()
	rooms := room.NewStore(room.RandomCode, metrics.NewRoomMetrics(reg))
	wsMetrics := metrics.NewWebSocketMetrics(reg)
	dispatcher := broadcast.NewDispatcher(wsMetrics)
	polls := poll.NewCoordinator(rooms, dispatcher, nil, clock, metrics.NewPollMetrics(reg))
	r := router.New(connections, rooms, polls, dispatcher, wsMetrics)
	hub := app.NewHub(r, polls, rooms, connections, clock, metrics.NewHubMetrics(reg))

	srv := NewServer(cfg, Deps{
		Loop:         hub,
		Registry:     reg,
		HTTPMetrics:  metrics.NewHTTPMetrics(reg),
		WSMetrics:    wsMetrics,
		Clock:        clock,
		HealthChecks: checks,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(hub.Stop)

	return &testStack{server: ts, hub: hub, wsMetrics: wsMetrics}
}

func (s *testStack) wsURL() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
}

func (s *testStack) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(s.wsURL(), nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *testStack) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, s.server.URL+path, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func send(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

// readUntil returns the next frame of type typ, skipping others such as
// timer updates that arrive on the real clock.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) broadcasttest.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(frameTimeout)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", typ)

		var f broadcasttest.Frame
		require.NoError(t, json.Unmarshal(data, &f))
		if f.Type == typ {
			return f
		}
	}
}
