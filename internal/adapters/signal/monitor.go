package signal

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Board/internal/app"
)

// Monitor sweeps the connection registry on a fixed period. A
// connection that has not answered a probe by the next sweep is
// presumed dead and killed; its read pump then runs the usual
// teardown. Two-tick timeout: one missed tick is tolerated, two are
// not.
type Monitor struct {
	Registry *app.Registry
	Period   time.Duration
}

func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Period)
	defer ticker.Stop()

	log.Info().Str("module", "signal.monitor").Dur("period", m.Period).Msg("liveness monitor started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal.monitor").Msg("liveness monitor stopped")
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep runs one monitor pass; exported so tests can drive ticks.
func (m *Monitor) Sweep() {
	for _, snap := range m.Registry.Snapshot() {
		if !snap.Conn.Alive() {
			log.Info().Str("module", "signal.monitor").Str("sid", string(snap.SID)).Msg("terminating inactive connection")
			m.Registry.Kill(snap.SID)
			continue
		}
		snap.Conn.SetAlive(false)
		if err := snap.Conn.Ping(); err != nil {
			log.Warn().Err(err).Str("module", "signal.monitor").Str("sid", string(snap.SID)).Msg("probe send failed")
			m.Registry.Kill(snap.SID)
		}
	}
}
