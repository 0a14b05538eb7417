package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct{ id uuid.UUID }

func (c stubConn) ID() uuid.UUID      { return c.id }
func (c stubConn) Send(_ []byte) bool { return true }
func (c stubConn) IsOpen() bool       { return true }
func (c stubConn) Close()             {}

func TestRegistry_BindAndUnbind(t *testing.T) {
	r := New()
	conn := stubConn{id: uuid.New()}

	e := r.Add(conn)
	assert.False(t, e.InRoom())

	r.Bind(conn.ID(), "ABC123", "Bob")
	got, ok := r.Get(conn.ID())
	require.True(t, ok)
	assert.Equal(t, "ABC123", got.RoomCode)
	assert.Equal(t, "Bob", got.Username)
	assert.True(t, got.InRoom())

	r.Unbind(conn.ID())
	assert.False(t, got.InRoom())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_AddIsIdempotent(t *testing.T) {
	r := New()
	conn := stubConn{id: uuid.New()}

	first := r.Add(conn)
	r.Bind(conn.ID(), "ABC123", "A")
	second := r.Add(conn)

	assert.Same(t, first, second)
	assert.Equal(t, "ABC123", second.RoomCode)
}

func TestRegistry_Remove(t *testing.T) {
	r := New()
	conn := stubConn{id: uuid.New()}
	r.Add(conn)
	r.Bind(conn.ID(), "XYZ789", "A")

	e, ok := r.Remove(conn.ID())
	require.True(t, ok)
	assert.Equal(t, "XYZ789", e.RoomCode)

	_, ok = r.Remove(conn.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.All())
}

func TestRegistry_BindUnknownIsNoop(t *testing.T) {
	r := New()
	r.Bind(uuid.New(), "ABC123", "ghost")
	assert.Equal(t, 0, r.Len())
}
