package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shubm18/Poll-Battel/internal/broadcast"
	"github.com/shubm18/Poll-Battel/internal/platform/correlation"
)

const maxFrameSize = 64 * 1024

func (s *Server) handleWebSocket(c echo.Context) error {
	ip := c.RealIP()
	reqCtx := c.Request().Context()

	if ok, reason := s.limits.Acquire(ip); !ok {
		s.wsMetrics.ConnectionsDenied.WithLabelValues(string(reason)).Inc()
		slog.WarnContext(reqCtx, "WebSocket connection denied", "reason", reason, "ip", ip)
		status := http.StatusServiceUnavailable
		if reason == LimitReasonRate {
			status = http.StatusTooManyRequests
		}
		return echo.NewHTTPError(status, "connection limit reached")
	}
	defer s.limits.Release(ip)

	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		slog.DebugContext(reqCtx, "WebSocket upgrade failed", "ip", ip, "error", err)
		return nil
	}

	ctx := correlation.Detach(reqCtx)
	client := broadcast.NewClient(ws, s.clock, s.wsMetrics)
	s.wsMetrics.ConnectionsTotal.Inc()
	s.wsMetrics.ActiveConnections.Inc()
	defer s.wsMetrics.ActiveConnections.Dec()

	slog.InfoContext(ctx, "WebSocket connected", "connection_id", client.ID(), "ip", ip)
	s.loop.Connect(ctx, client)

	ws.SetReadLimit(maxFrameSize)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.DebugContext(ctx, "WebSocket read failed", "connection_id", client.ID(), "error", err)
			}
			break
		}
		client.Touch()
		s.loop.Deliver(client, data)
	}

	s.loop.Disconnect(client)
	client.Close()
	slog.InfoContext(ctx, "WebSocket disconnected", "connection_id", client.ID())
	return nil
}
