package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCheckOrigin(t *testing.T) {
	allowed := []string{"https://poll.example.com"}

	tests := []struct {
		name          string
		allowed       []string
		origin        string
		isDevelopment bool
		want          bool
	}{
		{"empty origin", allowed, "", false, true},
		{"allowed origin", allowed, "https://poll.example.com", false, true},
		{"no allow list", nil, "https://anything.example", false, true},
		{"different host", allowed, "https://evil.com", false, false},
		{"different scheme", allowed, "http://poll.example.com", false, false},
		{"localhost dev", allowed, "http://localhost:5173", true, true},
		{"127.0.0.1 dev", allowed, "http://127.0.0.1:3000", true, true},
		{"localhost prod rejected", allowed, "http://localhost:5173", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := NewCheckOrigin(tt.allowed, tt.isDevelopment)
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, check(r))
		})
	}
}
