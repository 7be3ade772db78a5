package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Board/internal/adapters/http"
	wsignal "github.com/dkeye/Board/internal/adapters/signal"
	"github.com/dkeye/Board/internal/app"
	"github.com/dkeye/Board/internal/app/orch"
	"github.com/dkeye/Board/internal/config"
	"github.com/dkeye/Board/internal/identity"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	var ident identity.Store
	if cfg.IdentityURL != "" {
		ident = identity.NewHTTPStore(cfg.IdentityURL)
		log.Info().Str("url", cfg.IdentityURL).Msg("using HTTP identity store")
	} else {
		ident = identity.NewStaticStore()
		log.Warn().Msg("no identity_url configured, using empty in-memory identity store")
	}

	reg := app.NewRegistry()
	rooms := app.NewRoomStore()

	o := &orch.Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Identity: ident,
	}

	ctl := wsignal.NewSignalWSController(o, cfg.ReadLimit, cfg.SendBuffer)
	monitor := &wsignal.Monitor{Registry: reg, Period: cfg.PingPeriod}
	go monitor.Run(ctx)

	r := router.SetupRouter(ctx, cfg, ctl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Board server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
