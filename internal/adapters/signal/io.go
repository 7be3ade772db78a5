package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Board/internal/core"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump processes inbound messages strictly in arrival order; its
// deferred teardown is the one exit path for every kind of close.
func (ctl *SignalWSController) readPump(ctx context.Context, sid core.SessionID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.handleClose(sid)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			ctl.dispatch(ctx, sid, c, data)
		}
	}
}

// dispatch is the per-connection state machine entry: init-user is the
// only message an unauthenticated connection may send, everything else
// requires a session.
func (ctl *SignalWSController) dispatch(ctx context.Context, sid core.SessionID, conn core.SignalConnection, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("invalid message format")
		ctl.sendError(conn, "Invalid message format")
		return
	}

	if env.Type == "init-user" {
		ctl.handleInitUser(ctx, sid, conn, data)
		return
	}

	user, ok := ctl.Orch.Registry.UserOf(sid)
	if !ok {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", env.Type).Msg("user not initialized")
		ctl.sendError(conn, "User not initialized")
		return
	}

	switch env.Type {
	case "get-rooms":
		ctl.handleGetRooms(conn)
	case "create-room":
		ctl.handleCreateRoom(sid, conn, data)
	case "join-room":
		ctl.handleJoinRoom(sid, conn, data)
	case "shape-update":
		ctl.handleShapeUpdate(sid, conn, data)
	case "ping":
		ctl.handlePing(conn)
	default:
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("user", string(user.ID)).Str("type", env.Type).Msg("unknown message type")
		ctl.sendError(conn, "Unknown message type")
	}
}

func (ctl *SignalWSController) sendJSON(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = conn.TrySend(b)
}

func (ctl *SignalWSController) sendError(conn core.SignalConnection, msg string) {
	ctl.sendJSON(conn, struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{"error", msg})
}
