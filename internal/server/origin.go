package server

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
)

// NewCheckOrigin builds the upgrader's origin check. Requests without an Origin
// header are non-browser clients and always pass. An empty allow list accepts
// every origin; in development localhost origins are accepted as well.
func NewCheckOrigin(allowed []string, isDevelopment bool) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if origin == "" || len(allowed) == 0 {
			return true
		}

		if slices.Contains(allowed, origin) {
			return true
		}

		if isDevelopment && isLocalhostOrigin(origin) {
			return true
		}

		slog.Warn("WebSocket origin rejected", "origin", origin, "remote_addr", r.RemoteAddr)
		return false
	}
}

func isLocalhostOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1"
}
