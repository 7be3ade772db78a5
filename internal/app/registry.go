package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
)

type connEntry struct {
	Conn   core.SignalConnection
	User   *domain.User // nil until init-user succeeds
	RoomID domain.RoomID
	Cancel context.CancelFunc
}

// Registry tracks every live connection: its transport, its
// authenticated user (if any) and its bound room (if any).
// Rooms reference connections, the registry owns them.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.SessionID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.SessionID]*connEntry)}
}

func (r *Registry) Bind(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[sid] = &connEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound connection")
}

// Unbind removes the connection and cancels its context, so pumps and
// in-flight lookups tied to it stop even on a graceful close.
func (r *Registry) Unbind(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[sid]
	if !ok {
		return
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	delete(r.conns, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbound connection")
}

// Authenticate attaches a user to the connection, creating its session.
// Returns false if the connection vanished mid-lookup.
func (r *Registry) Authenticate(sid core.SessionID, user *domain.User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[sid]
	if !ok {
		return false
	}
	e.User = user
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("user", string(user.ID)).Msg("session initialized")
	return true
}

func (r *Registry) UserOf(sid core.SessionID) (*domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[sid]; ok && e.User != nil {
		return e.User, true
	}
	return nil, false
}

// MemberOf builds the room-facing view of an initialized connection.
func (r *Registry) MemberOf(sid core.SessionID) (core.Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[sid]
	if !ok || e.User == nil {
		return core.Member{}, false
	}
	return core.Member{User: e.User, Conn: e.Conn}, true
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[sid]
	if !ok || e.RoomID == "" {
		return "", false
	}
	return e.RoomID, true
}

func (r *Registry) SetRoom(sid core.SessionID, roomID domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[sid]
	if !ok {
		return false
	}
	e.RoomID = roomID
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomID)).Msg("bound room")
	return true
}

func (r *Registry) ClearRoom(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.conns[sid]; ok {
		e.RoomID = ""
	}
}

// ConnSnap is one registered connection at snapshot time.
type ConnSnap struct {
	SID  core.SessionID
	Conn core.SignalConnection
}

// Snapshot copies the live connection set so callers can iterate and
// send without holding the registry lock.
func (r *Registry) Snapshot() []ConnSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ConnSnap, 0, len(r.conns))
	for sid, e := range r.conns {
		out = append(out, ConnSnap{SID: sid, Conn: e.Conn})
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Kill forcibly terminates a connection: cancel its context and close
// the transport. The read pump then runs the same teardown path an
// ordinary peer close would.
func (r *Registry) Kill(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.conns[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	e.Conn.Close()
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("killed connection")
	return true
}
