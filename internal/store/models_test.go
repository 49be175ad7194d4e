package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/moduel/propdash/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestPlayerProjectionRowWithoutProjection(t *testing.T) {
	row := PlayerProjectionRow{
		PlayerKey: "jane_doe",
		Name:      sql.NullString{String: "Jane Doe", Valid: true},
	}

	p := row.ToDomain()
	assert.False(t, p.HasProjection)
	assert.Zero(t, p.Line)
	assert.Equal(t, domain.StatType(""), p.StatType)
	assert.Equal(t, "Jane Doe", p.Name)
}

func TestAnalysisRowToDomain(t *testing.T) {
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	row := AnalysisRow{
		PlayerKey:       "jane_doe",
		PlayerName:      "Jane Doe",
		ConfidenceLevel: 72.5,
		Reason1:         sql.NullString{String: "r1", Valid: true},
		Reason4:         sql.NullString{String: "r4", Valid: true},
		UpdatedAt:       now,
	}

	a := row.ToDomain()
	assert.Equal(t, [domain.ReasonCount]string{"r1", "", "", "r4"}, a.Reasons)
	assert.Equal(t, 72.5, a.Confidence())
	assert.Equal(t, now, a.UpdatedAt)
}

func TestGameStatsRowResolvesOpponent(t *testing.T) {
	row := GameStatsRow{
		GameID:   "42",
		Team:     sql.NullString{String: "Lunar Owls", Valid: true},
		HomeTeam: sql.NullString{String: "Lunar Owls", Valid: true},
		AwayTeam: sql.NullString{String: "Rose", Valid: true},
	}

	gs := row.ToDomain()
	assert.Equal(t, "Rose", gs.Opponent)
	assert.True(t, gs.OpponentKnown)
}
