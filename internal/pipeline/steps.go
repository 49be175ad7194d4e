package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// maxOutput caps the captured output kept per step; the tail is kept.
const maxOutput = 64 << 10

// CommandStep runs an external program and captures its combined output.
type CommandStep struct {
	name    string
	path    string
	args    []string
	dir     string
	timeout time.Duration
}

// NewCommandStep builds a step from a command line such as
// "python3 data/unrivaled/predict/analysis.py". Arguments are split on
// whitespace; quoting is not supported.
func NewCommandStep(commandLine, dir string, timeout time.Duration) (*CommandStep, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return &CommandStep{
		name:    StepName(fields),
		path:    fields[0],
		args:    fields[1:],
		dir:     dir,
		timeout: timeout,
	}, nil
}

// StepName derives a short step name from the last argument of a command:
// "go run data/unrivaled/unr_projections.go" becomes "projections".
func StepName(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	base := filepath.Base(fields[len(fields)-1])
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(base, "unr_")
}

func (s *CommandStep) Name() string { return s.name }

// CommandLine returns the command as it will be executed.
func (s *CommandStep) CommandLine() string {
	return strings.Join(append([]string{s.path}, s.args...), " ")
}

// Run executes the program. A non-zero exit, a timeout or a missing binary
// fails the step.
func (s *CommandStep) Run(ctx context.Context) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.path, s.args...)
	cmd.Dir = s.dir

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	output := tail(buf.String(), maxOutput)
	if err == nil {
		return output, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return output, fmt.Errorf("%s: %w", s.CommandLine(), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, fmt.Errorf("%s exited with status %d", s.CommandLine(), exitErr.ExitCode())
	}
	return output, fmt.Errorf("%s: %w", s.CommandLine(), err)
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

// FuncStep adapts a function into a Step.
type FuncStep struct {
	StepName string
	Fn       func(ctx context.Context) (string, error)
}

func (f FuncStep) Name() string { return f.StepName }

func (f FuncStep) Run(ctx context.Context) (string, error) { return f.Fn(ctx) }
