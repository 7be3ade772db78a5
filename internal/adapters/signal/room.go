package signal

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Board/internal/app/orch"
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
)

func (ctl *SignalWSController) handleGetRooms(conn core.SignalConnection) {
	ctl.sendJSON(conn, struct {
		Type  string          `json:"type"`
		Rooms []core.RoomInfo `json:"rooms"`
	}{"rooms-list", ctl.Orch.Rooms.List()})
}

func (ctl *SignalWSController) handleCreateRoom(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad create-room payload")
		ctl.sendError(conn, "Invalid message format")
		return
	}
	if !ctl.createLimit.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("create-room rate limited")
		ctl.sendError(conn, "Too many rooms created, slow down")
		return
	}

	room, prev, ok := ctl.Orch.CreateRoom(sid, domain.RoomName(p.Name))
	if !ok {
		ctl.sendError(conn, "User not initialized")
		return
	}

	ctl.sendJSON(conn, struct {
		Type   string        `json:"type"`
		RoomID domain.RoomID `json:"roomId"`
	}{"room-created", room.Room().ID})

	// The vacated room still has members to notify; the rooms-list push
	// below already covers the case where it was deleted.
	if prev.Left && !prev.Deleted {
		ctl.broadcastParticipants(prev.Room)
	}
	ctl.broadcastRoomsList()
}

func (ctl *SignalWSController) handleJoinRoom(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p struct {
		Type   string `json:"type"`
		RoomID string `json:"roomId"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad join-room payload")
		ctl.sendError(conn, "Invalid message format")
		return
	}

	room, prev, err := ctl.Orch.JoinRoom(sid, domain.RoomID(p.RoomID))
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Msg("join failed")
		ctl.sendJSON(conn, struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{"join-failed", fmt.Sprintf("Room %s not found", p.RoomID)})
		return
	}

	ctl.sendJSON(conn, struct {
		Type   string               `json:"type"`
		RoomID domain.RoomID        `json:"roomId"`
		Shapes domain.ShapeDocument `json:"shapes"`
	}{"room-joined", room.Room().ID, room.Shapes()})

	ctl.afterLeave(prev)
	ctl.broadcastParticipants(room)
}

// handleClose is the shared teardown: leave the bound room, drop the
// session, deregister, then tell whoever needs to know.
func (ctl *SignalWSController) handleClose(sid core.SessionID) {
	user, _ := ctl.Orch.Registry.UserOf(sid)
	res := ctl.Orch.Disconnect(sid)
	ctl.createLimit.Forget(sid)
	ctl.afterLeave(res)

	ev := log.Info().Str("module", "signal").Str("sid", string(sid))
	if user != nil {
		ev = ev.Str("user", string(user.ID))
	}
	ev.Msg("user disconnected")
}

// afterLeave emits the push matching a leave's outcome.
func (ctl *SignalWSController) afterLeave(res orch.LeaveResult) {
	if !res.Left {
		return
	}
	if res.Deleted {
		ctl.broadcastRoomsList()
		return
	}
	ctl.broadcastParticipants(res.Room)
}

// broadcastParticipants pushes the current member list to every member
// of the room, joiner included.
func (ctl *SignalWSController) broadcastParticipants(room core.RoomService) {
	if room == nil {
		return
	}
	b, err := json.Marshal(struct {
		Type         string                `json:"type"`
		Participants []core.ParticipantDTO `json:"participants"`
	}{"participants-update", room.Participants()})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("participants marshal")
		return
	}
	res := room.Broadcast("", b)
	ctl.reapDropped(res.Dropped)
}

// broadcastRoomsList pushes the room catalog to every connection,
// initialized or not, over a registry snapshot.
func (ctl *SignalWSController) broadcastRoomsList() {
	b, err := json.Marshal(struct {
		Type  string          `json:"type"`
		Rooms []core.RoomInfo `json:"rooms"`
	}{"rooms-list", ctl.Orch.Rooms.List()})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("rooms-list marshal")
		return
	}
	for _, snap := range ctl.Orch.Registry.Snapshot() {
		if err := snap.Conn.TrySend(b); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("sid", string(snap.SID)).Msg("rooms-list send failed")
			ctl.Orch.Registry.Kill(snap.SID)
		}
	}
}

// reapDropped treats a failed send like a peer disconnect: kill the
// connection and let its read pump run the normal teardown.
func (ctl *SignalWSController) reapDropped(dropped []core.SessionID) {
	for _, sid := range dropped {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("send failed, scheduling teardown")
		ctl.Orch.Registry.Kill(sid)
	}
}
