package signal

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
)

// handleShapeUpdate replaces the room document and relays the inbound
// frame verbatim to every other member. The sender gets nothing back on
// success, only on failure.
func (ctl *SignalWSController) handleShapeUpdate(
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p struct {
		Type   string               `json:"type"`
		RoomID string               `json:"roomId"`
		Shapes domain.ShapeDocument `json:"shapes"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad shape-update payload")
		ctl.sendError(conn, "Invalid message format")
		return
	}

	room, err := ctl.Orch.UpdateShapes(sid, domain.RoomID(p.RoomID), p.Shapes)
	switch {
	case errors.Is(err, core.ErrRoomNotFound):
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Msg("shape update for unknown room")
		ctl.sendError(conn, "Room not found for shape update")
		return
	case errors.Is(err, core.ErrNotMember):
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("room", p.RoomID).Msg("shape update from non-member")
		ctl.sendError(conn, "Not a member of this room")
		return
	case err != nil:
		ctl.sendError(conn, "Shape update failed")
		return
	}

	res := room.Broadcast(sid, data)
	ctl.reapDropped(res.Dropped)
}
