package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
)

type mockConn struct {
	mu     sync.Mutex
	alive  bool
	closed bool
}

func (m *mockConn) TrySend(core.Frame) error { return nil }
func (m *mockConn) Ping() error              { return nil }

func (m *mockConn) Alive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alive
}

func (m *mockConn) SetAlive(v bool) {
	m.mu.Lock()
	m.alive = v
	m.mu.Unlock()
}

func (m *mockConn) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockConn) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func TestRegistry_BindUnbind(t *testing.T) {
	r := NewRegistry()
	c := &mockConn{alive: true}
	r.Bind("s1", c, nil)

	assert.Equal(t, 1, r.Len())
	snaps := r.Snapshot()
	require.Len(t, snaps, 1)
	assert.Same(t, c, snaps[0].Conn.(*mockConn))

	r.Unbind("s1")
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Snapshot())
}

func TestRegistry_UnbindCancelsContext(t *testing.T) {
	r := NewRegistry()
	cancelled := false
	r.Bind("s1", &mockConn{alive: true}, func() { cancelled = true })

	r.Unbind("s1")
	assert.True(t, cancelled, "graceful deregistration must release the connection context")
	assert.Equal(t, 0, r.Len())

	// Unknown ids are a no-op.
	r.Unbind("ghost")
}

func TestRegistry_Authenticate(t *testing.T) {
	r := NewRegistry()
	r.Bind("s1", &mockConn{alive: true}, nil)

	_, ok := r.UserOf("s1")
	assert.False(t, ok, "fresh connection must be unauthenticated")
	_, ok = r.MemberOf("s1")
	assert.False(t, ok)

	assert.False(t, r.Authenticate("ghost", &domain.User{ID: "u1"}))
	assert.True(t, r.Authenticate("s1", &domain.User{ID: "u1"}))

	user, ok := r.UserOf("s1")
	require.True(t, ok)
	assert.Equal(t, domain.UserID("u1"), user.ID)

	m, ok := r.MemberOf("s1")
	require.True(t, ok)
	assert.Equal(t, domain.UserID("u1"), m.User.ID)
}

func TestRegistry_RoomBinding(t *testing.T) {
	r := NewRegistry()
	r.Bind("s1", &mockConn{alive: true}, nil)

	_, ok := r.RoomOf("s1")
	assert.False(t, ok)

	assert.False(t, r.SetRoom("ghost", "abcd1234"))
	assert.True(t, r.SetRoom("s1", "abcd1234"))

	roomID, ok := r.RoomOf("s1")
	require.True(t, ok)
	assert.Equal(t, domain.RoomID("abcd1234"), roomID)

	r.ClearRoom("s1")
	_, ok = r.RoomOf("s1")
	assert.False(t, ok)
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry()
	c1 := &mockConn{alive: true}
	c2 := &mockConn{alive: true}
	r.Bind("s1", c1, nil)
	r.Bind("s2", c2, nil)

	snaps := r.Snapshot()
	require.Len(t, snaps, 2)
	sids := []core.SessionID{snaps[0].SID, snaps[1].SID}
	assert.ElementsMatch(t, []core.SessionID{"s1", "s2"}, sids)
}

func TestRegistry_Kill(t *testing.T) {
	r := NewRegistry()
	c := &mockConn{alive: true}
	cancelled := false
	r.Bind("s1", c, func() { cancelled = true })

	assert.False(t, r.Kill("ghost"))
	assert.True(t, r.Kill("s1"))
	assert.True(t, cancelled)
	assert.True(t, c.isClosed())

	// Kill terminates the transport but leaves deregistration to the
	// read pump's teardown.
	assert.Equal(t, 1, r.Len())
}
