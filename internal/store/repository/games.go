package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/domain"
	"github.com/moduel/propdash/internal/store"
)

// ErrGameStatsNotFound is returned when a player has no box score for a game
var ErrGameStatsNotFound = apperr.NotFound("Game stats not found")

const gameStatsColumns = `
	g.game_id, g.game_date, g.home_team, g.away_team,
	s.player_name, s.team, s.opponent, s.minutes,
	s.rebounds, s.offensive_rebounds, s.defensive_rebounds, s.assists,
	s.steals, s.blocks, s.turnovers, s.personal_fouls, s.points,
	s.fg_made, s.fg_attempted, s.three_made, s.three_attempted,
	s.ft_made, s.ft_attempted
`

// GameRepository handles game and box score data access
type GameRepository struct {
	db *store.Database
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *store.Database) *GameRepository {
	return &GameRepository{db: db}
}

// GetRecentByPlayer returns the player's most recent games, newest first
func (r *GameRepository) GetRecentByPlayer(ctx context.Context, playerKey string, limit int) ([]domain.GameLine, error) {
	query := `
		SELECT ` + gameStatsColumns + `
		FROM game_stats s
		JOIN games g ON g.game_id = s.game_id
		WHERE s.player_key = $1
		ORDER BY g.game_date DESC, g.game_id DESC
		LIMIT $2
	`

	rows, err := r.db.DB().QueryContext(ctx, query, playerKey, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent games: %w", err)
	}
	defer rows.Close()

	var games []domain.GameLine
	for rows.Next() {
		row, err := scanGameStats(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, row.GameLine())
	}
	return games, rows.Err()
}

// GetPlayerGameStats returns a player's box score for one game
func (r *GameRepository) GetPlayerGameStats(ctx context.Context, gameID, playerKey string) (*domain.GameStats, error) {
	query := `
		SELECT ` + gameStatsColumns + `
		FROM game_stats s
		JOIN games g ON g.game_id = s.game_id
		WHERE s.game_id = $1 AND s.player_key = $2
	`

	row, err := scanGameStats(r.db.DB().QueryRowContext(ctx, query, gameID, playerKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameStatsNotFound
	}
	if err != nil {
		return nil, err
	}

	stats := row.ToDomain()
	return &stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGameStats(s scanner) (store.GameStatsRow, error) {
	var row store.GameStatsRow
	err := s.Scan(
		&row.GameID, &row.GameDate, &row.HomeTeam, &row.AwayTeam,
		&row.PlayerName, &row.Team, &row.Opponent, &row.Minutes,
		&row.Rebounds, &row.OffensiveRebounds, &row.DefensiveRebounds, &row.Assists,
		&row.Steals, &row.Blocks, &row.Turnovers, &row.PersonalFouls, &row.Points,
		&row.FGMade, &row.FGAttempted, &row.ThreeMade, &row.ThreeAttempted,
		&row.FTMade, &row.FTAttempted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return row, err
	}
	if err != nil {
		return row, fmt.Errorf("scanning game stats: %w", err)
	}
	return row, nil
}
