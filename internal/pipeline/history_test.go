package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryTracksActiveAndRecent(t *testing.T) {
	h := NewHistory(2)

	var seen StatusSummary
	chain := Chain{Name: "scrape", Steps: []Step{
		FuncStep{StepName: "peek", Fn: func(context.Context) (string, error) {
			seen = h.Status()
			return "", nil
		}},
	}}

	_, err := NewRunner().Run(context.Background(), chain, h)
	require.NoError(t, err)

	require.Len(t, seen.Active, 1)
	assert.Equal(t, RunRunning, seen.Active[0].Status)

	st := h.Status()
	assert.Empty(t, st.Active)
	require.Len(t, st.Recent, 1)
	assert.Equal(t, RunSucceeded, st.Recent[0].Status)
}

func TestHistoryKeepsNewestFirstWithinLimit(t *testing.T) {
	h := NewHistory(2)
	runner := NewRunner()
	fail := Chain{Name: "analysis", Steps: []Step{FuncStep{StepName: "analysis", Fn: func(context.Context) (string, error) {
		return "", errors.New("boom")
	}}}}

	_, _ = runner.Run(context.Background(), Chain{Name: "scrape"}, h)
	_, _ = runner.Run(context.Background(), Chain{Name: "process"}, h)
	_, _ = runner.Run(context.Background(), fail, h)

	st := h.Status()
	require.Len(t, st.Recent, 2)
	assert.Equal(t, "analysis", st.Recent[0].Chain)
	assert.Equal(t, RunFailed, st.Recent[0].Status)
	assert.Equal(t, "process", st.Recent[1].Chain)
}

func TestReportersFanOut(t *testing.T) {
	a, b := &recordingReporter{}, &recordingReporter{}
	_, err := NewRunner().Run(context.Background(), Chain{Name: "scrape"}, Reporters{a, b})
	require.NoError(t, err)
	assert.Equal(t, a.events, b.events)
	assert.Equal(t, []string{"start:scrape", "end:succeeded"}, a.events)
}
