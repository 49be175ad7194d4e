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

// ErrAnalysisNotFound is returned when no analysis exists for a player
var ErrAnalysisNotFound = apperr.NotFound("No analysis found for player")

const analysisColumns = `
	id, player_key, player_name, stat_type, confidence_level, confidence_scale,
	reason_1, reason_2, reason_3, reason_4, final_conclusion, updated_at
`

// AnalysisRepository handles analysis result data access
type AnalysisRepository struct {
	db *store.Database
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *store.Database) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// GetLatest returns the most recent analysis for the player and stat type.
// An empty stat type selects the player-level analysis.
func (r *AnalysisRepository) GetLatest(ctx context.Context, playerKey string, stat domain.StatType) (*domain.Analysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM analysis_results
		WHERE player_key = $1 AND stat_type = $2
		ORDER BY updated_at DESC, id DESC
		LIMIT 1
	`

	row, err := scanAnalysis(r.db.DB().QueryRowContext(ctx, query, playerKey, string(stat)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}

	a := row.ToDomain()
	return &a, nil
}

// ListLatest returns the latest analysis of every player and stat type, keyed
// by domain.AnalysisKey
func (r *AnalysisRepository) ListLatest(ctx context.Context) (map[string]domain.Analysis, error) {
	query := `
		SELECT DISTINCT ON (player_key, stat_type) ` + analysisColumns + `
		FROM analysis_results
		ORDER BY player_key, stat_type, updated_at DESC, id DESC
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Analysis)
	for rows.Next() {
		row, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		a := row.ToDomain()
		out[domain.AnalysisKey(a.PlayerKey, a.StatType)] = a
	}
	return out, rows.Err()
}

func scanAnalysis(s scanner) (store.AnalysisRow, error) {
	var row store.AnalysisRow
	err := s.Scan(
		&row.ID, &row.PlayerKey, &row.PlayerName, &row.StatType, &row.ConfidenceLevel,
		&row.ConfidenceScale, &row.Reason1, &row.Reason2, &row.Reason3, &row.Reason4,
		&row.FinalConclusion, &row.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return row, err
	}
	if err != nil {
		return row, fmt.Errorf("scanning analysis: %w", err)
	}
	return row, nil
}
