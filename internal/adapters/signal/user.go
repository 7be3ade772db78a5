package signal

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Board/internal/core"
)

func (ctl *SignalWSController) handleInitUser(
	ctx context.Context,
	sid core.SessionID,
	conn core.SignalConnection,
	data []byte,
) {
	var p struct {
		Type   string `json:"type"`
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == "" {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("bad init-user payload")
		ctl.sendError(conn, "Invalid message format")
		return
	}

	user, err := ctl.Orch.InitUser(ctx, sid, p.UserID)
	if err != nil {
		// Connection stays unauthenticated; the client may retry.
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("user", p.UserID).Msg("profile lookup failed")
		ctl.sendError(conn, "Failed to fetch user data")
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("user", p.UserID).Msg("user initialized")
	ctl.sendJSON(conn, struct {
		Type     string          `json:"type"`
		UserData json.RawMessage `json:"userData"`
	}{"user-initialized", user.Profile})
}
