package service

import (
	"context"
	"testing"
	"time"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/confidence"
	"github.com/moduel/propdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC) }

// janeReader holds Jane Doe's last six games. The five most recent, newest
// first, score 22, 19, 15, 20, 17.
func janeReader() *fakeReader {
	return &fakeReader{
		projections: []domain.PlayerProjection{
			{PlayerKey: "jane_doe", Name: "Jane Doe", Line: 18.5, StatType: domain.StatPoints, HasProjection: true},
		},
		games: map[string][]domain.GameLine{
			"jane_doe": {
				{GameID: "1", GameDate: day(1), Points: 30},
				{GameID: "2", GameDate: day(3), Points: 17},
				{GameID: "3", GameDate: day(5), Points: 20},
				{GameID: "4", GameDate: day(7), Points: 15},
				{GameID: "5", GameDate: day(9), Points: 19},
				{GameID: "6", GameDate: day(11), Points: 22},
			},
		},
	}
}

func TestLastNGamesAscendingAndCapped(t *testing.T) {
	svc := NewGameService(janeReader(), confidence.GreaterOrEqual)

	games, err := svc.LastNGames(context.Background(), "Jane Doe", 5)
	require.NoError(t, err)
	require.Len(t, games, 5)

	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.GameID
		if i > 0 {
			assert.True(t, g.GameDate.After(games[i-1].GameDate))
		}
	}
	assert.Equal(t, []string{"2", "3", "4", "5", "6"}, ids)
}

func TestLastNGamesClampsN(t *testing.T) {
	svc := NewGameService(janeReader(), confidence.GreaterOrEqual)

	games, err := svc.LastNGames(context.Background(), "Jane Doe", 50)
	require.NoError(t, err)
	assert.Len(t, games, 5)

	games, err = svc.LastNGames(context.Background(), "Jane Doe", 0)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "6", games[0].GameID)
}

func TestLastNGamesMissingPlayer(t *testing.T) {
	svc := NewGameService(janeReader(), confidence.GreaterOrEqual)

	_, err := svc.LastNGames(context.Background(), " ", 5)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	games, err := svc.LastNGames(context.Background(), "Nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestGameLogAnnotatesAgainstLine(t *testing.T) {
	svc := NewGameService(janeReader(), confidence.GreaterOrEqual)

	log, err := svc.GameLog(context.Background(), "Jane Doe", "", 5)
	require.NoError(t, err)

	require.NotNil(t, log.Line)
	assert.Equal(t, 18.5, *log.Line)
	require.Len(t, log.Result, 5)

	overs := make([]bool, len(log.Result))
	for i, e := range log.Result {
		require.NotNil(t, e.Over)
		overs[i] = *e.Over
	}
	// oldest to newest: 17, 20, 15, 19, 22
	assert.Equal(t, []bool{false, true, false, true, true}, overs)

	require.NotNil(t, log.Confidence)
	assert.Equal(t, 3, log.Confidence.OverCount)
	assert.Equal(t, 112.5, log.Confidence.Raw)
}

func TestGameLogWithoutLine(t *testing.T) {
	svc := NewGameService(janeReader(), confidence.GreaterOrEqual)

	log, err := svc.GameLog(context.Background(), "Jane Doe", domain.StatAssists, 5)
	require.NoError(t, err)
	assert.Nil(t, log.Line)
	assert.Nil(t, log.Confidence)
	assert.Nil(t, log.Result[0].Over)
}

func TestGameStatsHyphenatedName(t *testing.T) {
	r := &fakeReader{stats: map[string]domain.GameStats{
		"7|jane_doe": {GameID: "7", PlayerName: "Jane Doe", Team: "Rose", HomeTeam: "Lunar Owls", AwayTeam: "Rose"},
	}}
	svc := NewGameService(r, confidence.GreaterOrEqual)

	gs, err := svc.GameStats(context.Background(), "7", "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, "Lunar Owls", gs.Opponent)
	assert.True(t, gs.OpponentKnown)
}

func TestGameStatsNotFound(t *testing.T) {
	svc := NewGameService(&fakeReader{}, confidence.GreaterOrEqual)

	_, err := svc.GameStats(context.Background(), "42", "jane-doe")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Game stats not found", apperr.Message(err, ""))

	_, err = svc.GameStats(context.Background(), "", "jane-doe")
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestGameStatsUnknownOpponent(t *testing.T) {
	r := &fakeReader{stats: map[string]domain.GameStats{
		"8|jane_doe": {GameID: "8", Team: "Mist", HomeTeam: "Lunar Owls", AwayTeam: "Rose"},
	}}

	gs, err := NewGameService(r, confidence.GreaterOrEqual).GameStats(context.Background(), "8", "Jane Doe")
	require.NoError(t, err)
	assert.False(t, gs.OpponentKnown)
	assert.Empty(t, gs.Opponent)
}
