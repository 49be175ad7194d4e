package pipeline

import (
	"testing"
	"time"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(c Chain) []string {
	out := make([]string, len(c.Steps))
	for i, s := range c.Steps {
		out[i] = s.Name()
	}
	return out
}

func TestCatalogFullChainOrder(t *testing.T) {
	cat, err := NewCatalog(CatalogConfig{
		Dir:            ".",
		Timeout:        time.Minute,
		ScrapeCommands: []string{"go run data/unrivaled/scrape.go"},
		ProcessCommands: []string{
			"go run data/unrivaled/unr_projections.go",
			"python3 data/unrivaled/unr_player_fetcher.py",
			"python3 data/unrivaled/unr_player_scrape.py",
			"python3 data/unrivaled/unr_game_stats_scrape.py",
			"python3 data/unrivaled/unr_team_scrape.py",
		},
		AnalysisCommands: []string{"python3 data/unrivaled/predict/analysis.py"},
	})
	require.NoError(t, err)

	full, err := cat.Chain(ChainFull)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"scrape", "projections", "player_fetcher", "player_scrape",
		"game_stats_scrape", "team_scrape", "analysis",
	}, names(full))

	scrape, err := cat.Chain(ChainScrape)
	require.NoError(t, err)
	assert.Equal(t, []string{"scrape"}, names(scrape))

	assert.Equal(t, []string{"analysis", "full", "process", "scrape"}, cat.Names())
}

func TestCatalogUnknownChain(t *testing.T) {
	cat := NewCatalogFromSteps(map[string][]Step{})
	_, err := cat.Chain("deploy")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestCatalogRejectsBlankCommand(t *testing.T) {
	_, err := NewCatalog(CatalogConfig{ScrapeCommands: []string{""}})
	assert.Error(t, err)
}
