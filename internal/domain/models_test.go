package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "jane_doe", NormalizeName("Jane Doe"))
	assert.Equal(t, "jane_doe", NormalizeName("  jane   DOE "))
	assert.Equal(t, "", NormalizeName(""))
}

func TestNameFromURLAndSlug(t *testing.T) {
	assert.Equal(t, "jane doe", NameFromURL("jane-doe"))
	assert.Equal(t, "jane-doe", Slug("Jane Doe"))
}

func TestParseStatType(t *testing.T) {
	st, ok := ParseStatType("")
	assert.True(t, ok)
	assert.Equal(t, StatPoints, st)

	st, ok = ParseStatType("REBOUNDS")
	assert.True(t, ok)
	assert.Equal(t, StatRebounds, st)

	_, ok = ParseStatType("steals")
	assert.False(t, ok)
}

func TestPresentConfidence(t *testing.T) {
	tests := []struct {
		name  string
		raw   float64
		scale float64
		want  float64
	}{
		{"continuous passes through", 64, 0, 64},
		{"heuristic top", 150, 0, 100},
		{"heuristic upper", 112.5, 0, 75},
		{"explicit heuristic scale", 75, 150, 50},
		{"explicit heuristic low", 37.5, 150, 25},
		{"negative clamps", -5, 100, 0},
		{"over scale clamps", 180, 150, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PresentConfidence(tt.raw, tt.scale)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestNilAnalysisConfidenceIsZero(t *testing.T) {
	var a *Analysis
	assert.Equal(t, 0.0, a.Confidence())
}

func TestResolveOpponent(t *testing.T) {
	opp, ok := ResolveOpponent("Lunar Owls", "Lunar Owls", "Mist")
	assert.True(t, ok)
	assert.Equal(t, "Mist", opp)

	opp, ok = ResolveOpponent("mist", "Lunar Owls", "Mist")
	assert.True(t, ok)
	assert.Equal(t, "Lunar Owls", opp)

	opp, ok = ResolveOpponent("Vinyl", "Lunar Owls", "Mist")
	assert.False(t, ok)
	assert.Empty(t, opp)
}

func TestFillOpponentPrefersStoredValue(t *testing.T) {
	g := GameStats{Team: "Rose", Opponent: "Phantom"}
	g.FillOpponent()
	assert.True(t, g.OpponentKnown)
	assert.Equal(t, "Phantom", g.Opponent)

	g = GameStats{Team: "Rose", HomeTeam: "Laces", AwayTeam: "Vinyl"}
	g.FillOpponent()
	assert.False(t, g.OpponentKnown)
	assert.Empty(t, g.Opponent)
}

func TestStatValue(t *testing.T) {
	g := GameLine{Points: 20, Rebounds: 8, Assists: 4}
	assert.Equal(t, 20.0, g.StatValue(StatPoints))
	assert.Equal(t, 8.0, g.StatValue(StatRebounds))
	assert.Equal(t, 4.0, g.StatValue(StatAssists))
	assert.Equal(t, 32.0, g.StatValue(StatPtsRebsAsts))
}
