package service

import (
	"context"

	"github.com/moduel/propdash/internal/odds"
	"github.com/moduel/propdash/internal/pipeline"
)

// Trigger messages returned by the league poll.
const (
	LeagueDetectedMessage    = "UNR League detected. Scraping pipeline triggered."
	LeagueUnavailableMessage = "UNR League not available."
)

// LeagueChecker reports whether the league has projections posted.
type LeagueChecker interface {
	LeagueAvailable(ctx context.Context) (*odds.Availability, error)
}

// PipelineService runs ingestion chains on demand
type PipelineService struct {
	catalog  *pipeline.Catalog
	runner   *pipeline.Runner
	reporter pipeline.Reporter
	league   LeagueChecker
}

// NewPipelineService creates a pipeline service. reporter may be nil.
func NewPipelineService(catalog *pipeline.Catalog, runner *pipeline.Runner, reporter pipeline.Reporter, league LeagueChecker) *PipelineService {
	return &PipelineService{catalog: catalog, runner: runner, reporter: reporter, league: league}
}

// Trigger runs the named chain to completion. The result is returned even
// when a step fails.
func (s *PipelineService) Trigger(ctx context.Context, chain string) (*pipeline.RunResult, error) {
	c, err := s.catalog.Chain(chain)
	if err != nil {
		return nil, err
	}
	return s.runner.Run(ctx, c, s.reporter)
}

// LeaguePoll is the outcome of one league availability poll.
type LeaguePoll struct {
	Message      string              `json:"message"`
	Availability *odds.Availability  `json:"availability,omitempty"`
	Run          *pipeline.RunResult `json:"run,omitempty"`
}

// PollLeague checks the projections API and, when the league is available,
// runs the full chain. Odds API failures are returned before any step runs.
func (s *PipelineService) PollLeague(ctx context.Context) (*LeaguePoll, error) {
	avail, err := s.league.LeagueAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		return &LeaguePoll{Message: LeagueUnavailableMessage, Availability: avail}, nil
	}

	run, err := s.Trigger(ctx, pipeline.ChainFull)
	return &LeaguePoll{Message: LeagueDetectedMessage, Availability: avail, Run: run}, err
}

// Chains lists the chain names that can be triggered.
func (s *PipelineService) Chains() []string {
	return s.catalog.Names()
}
