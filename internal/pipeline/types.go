package pipeline

import (
	"context"
	"time"
)

// Step is one external ingestion program in a chain.
type Step interface {
	Name() string
	// Run executes the step and returns its captured output.
	Run(ctx context.Context) (string, error)
}

// Chain is an ordered list of steps run under one name.
type Chain struct {
	Name  string
	Steps []Step
}

// StepStatus represents the outcome of a single step.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// RunStatus represents the lifecycle state of a chain run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// StepResult records what happened to one step.
type StepResult struct {
	Name       string        `json:"name"`
	Status     StepStatus    `json:"status"`
	Output     string        `json:"output,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms"`
}

// RunResult is the structured outcome of a chain run returned to callers.
type RunResult struct {
	ID         string       `json:"id"`
	Chain      string       `json:"chain"`
	Status     RunStatus    `json:"status"`
	Steps      []StepResult `json:"steps"`
	FailedStep string       `json:"failed_step,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at,omitempty"`
}

// Clone returns a deep copy to prevent external mutation.
func (r *RunResult) Clone() *RunResult {
	if r == nil {
		return nil
	}
	cpy := *r
	cpy.Steps = append([]StepResult(nil), r.Steps...)
	return &cpy
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnRunStart(run *RunResult)
	OnStepStart(run *RunResult, step string, index, total int)
	OnStepComplete(run *RunResult, result StepResult)
	OnRunComplete(run *RunResult)
}

// Reporters fans callbacks out to several reporters in order.
type Reporters []Reporter

func (rs Reporters) OnRunStart(run *RunResult) {
	for _, r := range rs {
		r.OnRunStart(run)
	}
}

func (rs Reporters) OnStepStart(run *RunResult, step string, index, total int) {
	for _, r := range rs {
		r.OnStepStart(run, step, index, total)
	}
}

func (rs Reporters) OnStepComplete(run *RunResult, result StepResult) {
	for _, r := range rs {
		r.OnStepComplete(run, result)
	}
}

func (rs Reporters) OnRunComplete(run *RunResult) {
	for _, r := range rs {
		r.OnRunComplete(run)
	}
}
