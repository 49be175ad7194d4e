package docstore

import (
	"testing"
	"time"

	"github.com/moduel/propdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestJoinProjections(t *testing.T) {
	line := 18.5
	players := []playerDoc{
		{ID: "jane_doe", Name: "Jane Doe", Team: "Lunar Owls", Position: "G"},
		{ID: "no_line", Name: "No Line"},
	}
	lines := []propLineDoc{
		{ID: "jane_doe", PropLine: 17, ProjectionData: projectionDoc{LineScore: &line, StatType: "Points", Description: "Rose"}},
		{ID: "orphan", PropLine: 9.5},
	}

	got := joinProjections(players, lines)
	require.Len(t, got, 3)

	assert.Equal(t, "jane_doe", got[0].PlayerKey)
	assert.Equal(t, 18.5, got[0].Line)
	assert.Equal(t, "Rose", got[0].Opponent)
	assert.True(t, got[0].HasProjection)

	assert.Equal(t, "no_line", got[1].PlayerKey)
	assert.False(t, got[1].HasProjection)

	assert.Equal(t, "orphan", got[2].PlayerKey)
	assert.Empty(t, got[2].Name)
	assert.Equal(t, 9.5, got[2].Line)
}

func TestGameDocDecodesAndResolvesOpponent(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"game_id":    "42",
		"player_key": "jane_doe",
		"game_date":  time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		"team":       "Rose",
		"home_team":  "Lunar Owls",
		"away_team":  "Rose",
		"pts":        22,
		"fg_m":       8,
		"fg_a":       15,
	})
	require.NoError(t, err)

	var doc gameDoc
	require.NoError(t, bson.Unmarshal(raw, &doc))

	gs := doc.toGameStats()
	assert.Equal(t, "Lunar Owls", gs.Opponent)
	assert.True(t, gs.OpponentKnown)
	assert.Equal(t, 22, gs.Points)
	assert.Equal(t, 15, gs.FieldGoalsAtt)

	assert.Equal(t, domain.GameLine{GameID: "42", GameDate: gs.GameDate, Points: 22}, doc.toGameLine())
}

func TestAnalysisFilter(t *testing.T) {
	f := analysisFilter("jane_doe", domain.StatRebounds)
	assert.Equal(t, bson.D{
		{Key: "player_key", Value: "jane_doe"},
		{Key: "stat_type", Value: "Rebounds"},
	}, f)

	f = analysisFilter("jane_doe", "")
	assert.Equal(t, bson.D{
		{Key: "player_key", Value: "jane_doe"},
		{Key: "stat_type", Value: bson.D{{Key: "$in", Value: bson.A{"", nil}}}},
	}, f)
}
