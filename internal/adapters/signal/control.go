package signal

import "github.com/dkeye/Board/internal/core"

// Browsers cannot emit ws ping control frames from script, so clients
// get a JSON-level echo as well.
func (ctl *SignalWSController) handlePing(conn core.SignalConnection) {
	ctl.sendJSON(conn, struct {
		Type string `json:"type"`
	}{"pong"})
}
