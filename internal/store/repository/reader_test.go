package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/domain"
	"github.com/moduel/propdash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveClassifiesErrors(t *testing.T) {
	assert.NoError(t, observe("op", nil))

	err := observe("op", ErrGameStatsNotFound)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "Game stats not found", apperr.Message(err, ""))

	err = observe("op", errors.New("connection refused"))
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}

// Integration tests; set PROPDASH_TEST_DATABASE_URL to run them.
func setupTestDB(t *testing.T) (*store.Database, context.Context) {
	dsn := os.Getenv("PROPDASH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PROPDASH_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := store.NewDatabase(ctx, dsn, store.DefaultOptions())
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, db.RunMigrations(ctx))

	for _, stmt := range []string{
		`TRUNCATE analysis_results, game_stats, games, projections, players`,
		`INSERT INTO players (player_key, name, team, position) VALUES ('jane_doe', 'Jane Doe', 'Lunar Owls', 'G')`,
		`INSERT INTO projections (player_key, stat_type, line_score, description) VALUES ('jane_doe', 'Points', 18.5, 'Rose')`,
		`INSERT INTO projections (player_key, stat_type, line_score, description) VALUES ('ghost_player', 'Points', 10.5, 'Vinyl')`,
		`INSERT INTO games (game_id, game_date, home_team, away_team) VALUES
			('1', '2025-01-01', 'Lunar Owls', 'Rose'), ('2', '2025-01-03', 'Vinyl', 'Lunar Owls'),
			('3', '2025-01-05', 'Lunar Owls', 'Mist'), ('4', '2025-01-07', 'Laces', 'Lunar Owls'),
			('5', '2025-01-09', 'Lunar Owls', 'Phantom'), ('6', '2025-01-11', 'Rose', 'Lunar Owls')`,
		`INSERT INTO game_stats (game_id, player_key, player_name, team, points) VALUES
			('1', 'jane_doe', 'Jane Doe', 'Lunar Owls', 10), ('2', 'jane_doe', 'Jane Doe', 'Lunar Owls', 17),
			('3', 'jane_doe', 'Jane Doe', 'Lunar Owls', 20), ('4', 'jane_doe', 'Jane Doe', 'Lunar Owls', 15),
			('5', 'jane_doe', 'Jane Doe', 'Lunar Owls', 19), ('6', 'jane_doe', 'Jane Doe', 'Lunar Owls', 22)`,
		`INSERT INTO analysis_results (player_key, player_name, confidence_level, reason_1, updated_at) VALUES
			('jane_doe', 'Jane Doe', 40, 'old', NOW() - INTERVAL '1 day'),
			('jane_doe', 'Jane Doe', 72, 'new', NOW())`,
	} {
		_, err := db.DB().ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	t.Cleanup(func() { db.Close() })
	return db, ctx
}

func TestReaderListPlayerProjections(t *testing.T) {
	db, ctx := setupTestDB(t)
	r := NewReader(db)

	players, err := r.ListPlayerProjections(ctx)
	require.NoError(t, err)
	require.Len(t, players, 2)

	byKey := map[string]domain.PlayerProjection{}
	for _, p := range players {
		byKey[p.PlayerKey] = p
	}
	assert.Equal(t, "Jane Doe", byKey["jane_doe"].Name)
	assert.Equal(t, 18.5, byKey["jane_doe"].Line)
	assert.Empty(t, byKey["ghost_player"].Name)
	assert.True(t, byKey["ghost_player"].HasProjection)
}

func TestReaderRecentGamesNewestFirst(t *testing.T) {
	db, ctx := setupTestDB(t)
	r := NewReader(db)

	games, err := r.RecentGames(ctx, "Jane Doe", 5)
	require.NoError(t, err)
	require.Len(t, games, 5)
	assert.Equal(t, "6", games[0].GameID)
	assert.Equal(t, "2", games[4].GameID)
}

func TestReaderGameStats(t *testing.T) {
	db, ctx := setupTestDB(t)
	r := NewReader(db)

	gs, err := r.GameStats(ctx, "2", "jane doe")
	require.NoError(t, err)
	assert.Equal(t, "Vinyl", gs.Opponent)
	assert.True(t, gs.OpponentKnown)

	_, err = r.GameStats(ctx, "42", "jane doe")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.NotErrorIs(t, err, sql.ErrNoRows)
}

func TestReaderLatestAnalysisWins(t *testing.T) {
	db, ctx := setupTestDB(t)
	r := NewReader(db)

	a, err := r.LatestAnalysis(ctx, "jane_doe", "")
	require.NoError(t, err)
	assert.Equal(t, "new", a.Reasons[0])

	all, err := r.ListAnalyses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 72.0, all[domain.AnalysisKey("jane_doe", "")].ConfidenceLevel)

	_, err = r.LatestAnalysis(ctx, "nobody", "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
