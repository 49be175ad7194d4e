package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/moduel/propdash/internal/apperr"
)

// Runner executes chains step by step, stopping at the first failure.
// Concurrent runs are not coordinated; each call is independent.
type Runner struct {
	now func() time.Time
}

// NewRunner constructs a runner.
func NewRunner() *Runner {
	return &Runner{now: time.Now}
}

// Run executes the chain, reporting progress via the Reporter if provided.
// The returned result is always non-nil; err is an ingestion error naming the
// failed step.
func (r *Runner) Run(ctx context.Context, chain Chain, reporter Reporter) (*RunResult, error) {
	run := &RunResult{
		ID:        uuid.NewString(),
		Chain:     chain.Name,
		Status:    RunRunning,
		Steps:     make([]StepResult, 0, len(chain.Steps)),
		StartedAt: r.now(),
	}
	if reporter != nil {
		reporter.OnRunStart(run)
	}

	var runErr error
	total := len(chain.Steps)
	for idx, step := range chain.Steps {
		if runErr != nil {
			run.Steps = append(run.Steps, StepResult{Name: step.Name(), Status: StepSkipped})
			continue
		}

		if reporter != nil {
			reporter.OnStepStart(run, step.Name(), idx, total)
		}

		result := r.runStep(ctx, step)
		run.Steps = append(run.Steps, result)
		if result.Status == StepFailed {
			run.FailedStep = step.Name()
			runErr = apperr.Ingestion(fmt.Sprintf("step %s failed", step.Name()), errors.New(result.Error))
		}

		if reporter != nil {
			reporter.OnStepComplete(run, result)
		}
	}

	run.FinishedAt = r.now()
	run.Status = RunSucceeded
	if runErr != nil {
		run.Status = RunFailed
	}

	if reporter != nil {
		reporter.OnRunComplete(run)
	}

	return run, runErr
}

func (r *Runner) runStep(ctx context.Context, step Step) StepResult {
	result := StepResult{Name: step.Name()}
	start := r.now()

	var (
		output string
		err    error
	)
	if err = ctx.Err(); err == nil {
		output, err = step.Run(ctx)
	}

	result.Duration = r.now().Sub(start)
	result.DurationMS = result.Duration.Milliseconds()
	result.Output = output
	if err != nil {
		result.Status = StepFailed
		result.Error = err.Error()
		return result
	}
	result.Status = StepSucceeded
	return result
}
