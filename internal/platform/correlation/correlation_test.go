package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	ids := make(map[string]struct{}, 100)
	for range 100 {
		id := NewID()
		assert.Len(t, id, 8)
		ids[id] = struct{}{}
	}
	assert.Len(t, ids, 100)
}

func TestFromHeader(t *testing.T) {
	assert.Equal(t, "req-42", FromHeader("req-42"))
	assert.Len(t, FromHeader(""), 8)
	assert.Len(t, FromHeader(strings.Repeat("x", maxIDLength+1)), 8)
}

func TestID(t *testing.T) {
	id, ok := ID(WithID(context.Background(), "abc12345"))
	assert.True(t, ok)
	assert.Equal(t, "abc12345", id)

	_, ok = ID(context.Background())
	assert.False(t, ok)

	_, ok = ID(WithID(context.Background(), ""))
	assert.False(t, ok)
}

func TestDetach_KeepsIDDropsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(WithID(context.Background(), "conn0001"))
	cancel()

	detached := Detach(ctx)

	assert.NoError(t, detached.Err())
	id, ok := ID(detached)
	assert.True(t, ok)
	assert.Equal(t, "conn0001", id)

	_, ok = ID(Detach(context.Background()))
	assert.False(t, ok)
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil))).With("component", "hub")

	logger.InfoContext(WithID(context.Background(), "test1234"), "Room created", "room_code", "ABC123")
	logger.InfoContext(context.Background(), "no correlation")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "correlation_id=test1234")
	assert.Contains(t, lines[0], "component=hub")
	assert.Contains(t, lines[0], "room_code=ABC123")
	assert.NotContains(t, lines[1], "correlation_id")
}
