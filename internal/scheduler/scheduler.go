package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/moduel/propdash/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// LeaguePoller is the scheduled task: poll the league and run the chain.
type LeaguePoller interface {
	PollLeague(ctx context.Context) (*service.LeaguePoll, error)
}

// Scheduler runs the league poll on a cron schedule. A poll still running
// when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	spec   string
	poller LeaguePoller
	logger zerolog.Logger
	cron   *cron.Cron

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates a scheduler for the given cron spec (standard five fields or a
// descriptor such as "@daily").
func New(spec string, poller LeaguePoller, logger zerolog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(&logger)
	return &Scheduler{
		spec:   spec,
		poller: poller,
		logger: logger,
		cron:   cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
	}
}

// Start registers the poll and starts the cron loop. Polls run with a
// context derived from ctx and are cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule league poll: %w", err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info().Str("schedule", s.spec).Msg("League poll scheduled")
	return nil
}

// Stop cancels any running poll and waits for it to return, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info().Msg("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce polls the league immediately. Failures are logged.
func (s *Scheduler) RunOnce(ctx context.Context) {
	start := time.Now()
	s.logger.Info().Msg("Running scheduled league poll")

	poll, err := s.poller.PollLeague(ctx)
	if err != nil {
		evt := s.logger.Error().Err(err)
		if poll != nil && poll.Run != nil {
			evt = evt.Str("run_id", poll.Run.ID).Str("failed_step", poll.Run.FailedStep)
		}
		evt.Dur("duration", time.Since(start)).Msg("Scheduled league poll failed")
		return
	}

	s.logger.Info().
		Str("message", poll.Message).
		Dur("duration", time.Since(start)).
		Msg("Scheduled league poll finished")
}
