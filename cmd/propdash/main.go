package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/moduel/propdash/internal/api/rest"
	"github.com/moduel/propdash/internal/api/websocket"
	"github.com/moduel/propdash/internal/app"
	"github.com/moduel/propdash/internal/config"
	"github.com/moduel/propdash/internal/dashboard"
	"github.com/moduel/propdash/internal/logging"
	"github.com/moduel/propdash/internal/scheduler"
	"github.com/rs/zerolog/log"
)

const serviceName = "propdash"

func main() {
	cfg := config.MustLoad()
	logging.Setup(cfg.AppEnv, cfg.LogLevel)
	log.Info().Str("service", serviceName).Str("env", cfg.AppEnv).Str("store", cfg.StoreBackend).Msg("Starting prop confidence dashboard")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}

	// Websocket hub for analysis updates
	hub := websocket.NewHub()
	go hub.Run(ctx)
	wsServer := websocket.NewServer(hub, cfg.CORSAllowOrigins)

	// Analysis poller feeding the hub and the update stream
	sinks := []dashboard.UpdateSink{
		dashboard.SinkFunc(func(_ context.Context, u dashboard.Update) error { return hub.BroadcastJSON(u) }),
	}
	if a.Publisher != nil {
		sinks = append(sinks, dashboard.SinkFunc(func(ctx context.Context, u dashboard.Update) error {
			return a.Publisher.PublishAnalysisUpdate(ctx, u)
		}))
	}
	poller := dashboard.NewPoller(a.Analysis, cfg.PollInterval, logging.Component("poller"), sinks...)
	poller.SetViewers(hub.ClientCount)
	go poller.Run(ctx)

	pages, err := dashboard.NewPages(a.Players, a.Games, poller, a.Comparator, logging.Component("dashboard"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dashboard templates")
	}

	var sched *scheduler.Scheduler
	if cfg.EnableScheduler {
		sched = scheduler.New(cfg.LeaguePollCron, a.Pipeline, logging.Component("scheduler"))
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	handler := rest.NewHandler(a.Players, a.Games, a.Analysis, a.Confidence, a.Reader, cfg.StoreBackend)
	triggers := rest.NewTriggerHandler(a.Pipeline, a.History)
	restServer := rest.NewServer(cfg.HTTPAddr(), handler, triggers, pages, rest.Options{
		CORSAllowOrigins:  cfg.CORSAllowOrigins,
		RateLimitEnabled:  cfg.RateLimitEnabled,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	})

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr()).Msg("REST API server listening")
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("REST server error")
			cancel()
		}
	}()
	go func() {
		if err := wsServer.Start(cfg.WSAddr()); err != nil {
			log.Error().Err(err).Msg("WebSocket server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if sched != nil {
		if err := sched.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Scheduler shutdown error")
		}
	}
	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("REST API server shutdown error")
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("WebSocket server shutdown error")
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Failed to release resources")
	}

	log.Info().Msg("Stopped")
}
