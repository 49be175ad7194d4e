package pipeline

import (
	"context"
	"time"

	"github.com/moduel/propdash/internal/metrics"
	"github.com/rs/zerolog"
)

// LogReporter logs run lifecycle events and records metrics.
type LogReporter struct {
	logger zerolog.Logger
}

// NewLogReporter creates a reporter writing to logger.
func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (l *LogReporter) OnRunStart(run *RunResult) {
	l.logger.Info().Str("run_id", run.ID).Str("chain", run.Chain).Msg("pipeline run started")
}

func (l *LogReporter) OnStepStart(run *RunResult, step string, index, total int) {
	l.logger.Info().
		Str("run_id", run.ID).
		Str("step", step).
		Int("index", index+1).
		Int("total", total).
		Msg("pipeline step started")
}

func (l *LogReporter) OnStepComplete(run *RunResult, result StepResult) {
	metrics.PipelineStepDuration.WithLabelValues(result.Name, string(result.Status)).Observe(result.Duration.Seconds())

	evt := l.logger.Info()
	if result.Status == StepFailed {
		evt = l.logger.Error().Str("error", result.Error).Str("output", result.Output)
	}
	evt.Str("run_id", run.ID).
		Str("step", result.Name).
		Str("status", string(result.Status)).
		Dur("duration", result.Duration).
		Msg("pipeline step finished")
}

func (l *LogReporter) OnRunComplete(run *RunResult) {
	metrics.PipelineRunsTotal.WithLabelValues(run.Chain, string(run.Status)).Inc()

	evt := l.logger.Info()
	if run.Status == RunFailed {
		evt = l.logger.Error().Str("failed_step", run.FailedStep)
	}
	evt.Str("run_id", run.ID).
		Str("chain", run.Chain).
		Str("status", string(run.Status)).
		Msg("pipeline run finished")
}

// RunPublisher is the subset of the stream publisher used for run events.
type RunPublisher interface {
	PublishPipelineRun(ctx context.Context, event string, run any) error
}

// StreamReporter publishes run starts and completions to a stream. Publish
// failures are logged and never fail the run.
type StreamReporter struct {
	pub     RunPublisher
	logger  zerolog.Logger
	timeout time.Duration
}

// NewStreamReporter creates a reporter publishing through pub.
func NewStreamReporter(pub RunPublisher, logger zerolog.Logger) *StreamReporter {
	return &StreamReporter{pub: pub, logger: logger, timeout: 2 * time.Second}
}

func (s *StreamReporter) OnRunStart(run *RunResult) { s.publish("run.started", run) }

func (s *StreamReporter) OnStepStart(*RunResult, string, int, int) {}

func (s *StreamReporter) OnStepComplete(run *RunResult, _ StepResult) {
	s.publish("run.step_completed", run)
}

func (s *StreamReporter) OnRunComplete(run *RunResult) { s.publish("run.completed", run) }

func (s *StreamReporter) publish(event string, run *RunResult) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.pub.PublishPipelineRun(ctx, event, run.Clone()); err != nil {
		s.logger.Warn().Err(err).Str("run_id", run.ID).Str("event", event).Msg("failed to publish pipeline event")
	}
}
