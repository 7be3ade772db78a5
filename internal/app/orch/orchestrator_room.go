package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
)

// LeaveResult tells the caller what a leave changed, so it can emit the
// matching push: rooms-list when the room died, participants-update when
// members remain, nothing when there was no room to leave.
type LeaveResult struct {
	RoomID  domain.RoomID
	Room    core.RoomService
	Deleted bool
	Left    bool
}

// CreateRoom makes a fresh room with the caller as its sole member.
// A connection holds at most one room, so any previous membership is
// released first; the result of that implicit leave is returned.
func (o *Orchestrator) CreateRoom(sid core.SessionID, name domain.RoomName) (core.RoomService, LeaveResult, bool) {
	member, ok := o.Registry.MemberOf(sid)
	if !ok {
		return nil, LeaveResult{}, false
	}
	prev := o.Leave(sid)
	room := o.Rooms.Create(name)
	room.AddMember(sid, member)
	o.Registry.SetRoom(sid, room.Room().ID)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.Room().ID)).Str("user", string(member.User.ID)).Msg("room created")
	return room, prev, true
}

// JoinRoom adds the connection to an existing room. The existence check
// comes before the implicit leave, so a failed join has no side effects.
// Joining the room you are already in just resends the snapshot.
func (o *Orchestrator) JoinRoom(sid core.SessionID, roomID domain.RoomID) (core.RoomService, LeaveResult, error) {
	member, ok := o.Registry.MemberOf(sid)
	if !ok {
		return nil, LeaveResult{}, ErrNotInitialized
	}
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return nil, LeaveResult{}, core.ErrRoomNotFound
	}
	if cur, inRoom := o.Registry.RoomOf(sid); inRoom && cur == roomID {
		return room, LeaveResult{}, nil
	}
	prev := o.Leave(sid)
	room.AddMember(sid, member)
	o.Registry.SetRoom(sid, roomID)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomID)).Str("user", string(member.User.ID)).Msg("joined room")
	return room, prev, nil
}

// Leave releases the connection's room membership, destroying the room
// when it empties. Idempotent: no bound room, or a room already torn
// down by a racing leave, is a no-op.
func (o *Orchestrator) Leave(sid core.SessionID) LeaveResult {
	roomID, ok := o.Registry.RoomOf(sid)
	if !ok {
		return LeaveResult{}
	}
	o.Registry.ClearRoom(sid)
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return LeaveResult{RoomID: roomID}
	}
	remaining := room.RemoveMember(sid)
	if remaining == 0 {
		o.Rooms.Remove(roomID)
		log.Info().Str("module", "orch").Str("room", string(roomID)).Msg("room deleted")
		return LeaveResult{RoomID: roomID, Room: room, Deleted: true, Left: true}
	}
	return LeaveResult{RoomID: roomID, Room: room, Left: true}
}

// Disconnect is the single teardown path: explicit close and liveness
// eviction both land here via the read pump.
func (o *Orchestrator) Disconnect(sid core.SessionID) LeaveResult {
	res := o.Leave(sid)
	o.Registry.Unbind(sid)
	return res
}

// UpdateShapes replaces a room's document wholesale. The sender must be
// a member of the target room.
func (o *Orchestrator) UpdateShapes(sid core.SessionID, roomID domain.RoomID, doc domain.ShapeDocument) (core.RoomService, error) {
	room, ok := o.Rooms.Get(roomID)
	if !ok {
		return nil, core.ErrRoomNotFound
	}
	if cur, inRoom := o.Registry.RoomOf(sid); !inRoom || cur != roomID {
		return nil, core.ErrNotMember
	}
	room.ReplaceShapes(doc)
	return room, nil
}
