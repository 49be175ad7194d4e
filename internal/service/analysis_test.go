package service

import (
	"context"
	"testing"
	"time"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisReader() *fakeReader {
	return &fakeReader{analyses: []domain.Analysis{
		{PlayerKey: "jane_doe", PlayerName: "Jane Doe", ConfidenceLevel: 55, Reasons: [4]string{"old"}, UpdatedAt: time.Unix(10, 0)},
		{PlayerKey: "jane_doe", PlayerName: "Jane Doe", ConfidenceLevel: 81, Reasons: [4]string{"new", "two", "three", "four"}, FinalConclusion: "Over", UpdatedAt: time.Unix(20, 0)},
		{PlayerKey: "jane_doe", PlayerName: "Jane Doe", StatType: domain.StatRebounds, ConfidenceLevel: 12, UpdatedAt: time.Unix(5, 0)},
	}}
}

func TestAnalysisStatusLatestWins(t *testing.T) {
	svc := NewAnalysisService(analysisReader(), nil)

	st, err := svc.Status(context.Background(), "Jane Doe", "")
	require.NoError(t, err)
	assert.Equal(t, 81.0, st.ConfidenceLevel)
	assert.Equal(t, "new", st.Reason1)
	assert.Equal(t, "four", st.Reason4)
	assert.Equal(t, "Over", st.FinalConclusion)
}

func TestAnalysisStatusPerStatWithFallback(t *testing.T) {
	r := analysisReader()
	svc := NewAnalysisService(r, nil)

	st, err := svc.Status(context.Background(), "Jane Doe", domain.StatRebounds)
	require.NoError(t, err)
	assert.Equal(t, 12.0, st.ConfidenceLevel)

	st, err = svc.Status(context.Background(), "Jane Doe", domain.StatAssists)
	require.NoError(t, err)
	assert.Equal(t, 81.0, st.ConfidenceLevel)
	assert.Equal(t, []string{
		"jane_doe|Rebounds", "jane_doe|Assists", "jane_doe|",
	}, r.latestCalls)
}

func TestAnalysisStatusErrors(t *testing.T) {
	svc := NewAnalysisService(analysisReader(), nil)

	_, err := svc.Status(context.Background(), "", "")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Equal(t, "Missing playerName", apperr.Message(err, ""))

	_, err = svc.Status(context.Background(), "Nobody", "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "No analysis found for player", apperr.Message(err, ""))
}

func TestAnalysisCacheReadThrough(t *testing.T) {
	r := analysisReader()
	c := &mapCache{}
	svc := NewAnalysisService(r, c)

	_, err := svc.Latest(context.Background(), "Jane Doe", "")
	require.NoError(t, err)
	_, err = svc.Latest(context.Background(), "jane doe", "")
	require.NoError(t, err)

	assert.Len(t, r.latestCalls, 1, "second read is served from the cache")
	assert.Equal(t, 1, c.sets)
}

func TestParseAnalysisStat(t *testing.T) {
	stat, err := ParseAnalysisStat("")
	require.NoError(t, err)
	assert.Equal(t, domain.StatType(""), stat)

	stat, err = ParseAnalysisStat("reb")
	require.NoError(t, err)
	assert.Equal(t, domain.StatRebounds, stat)

	_, err = ParseAnalysisStat("steals")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}
