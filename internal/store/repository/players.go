package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/moduel/propdash/internal/domain"
	"github.com/moduel/propdash/internal/store"
)

// PlayerRepository handles player and projection data access
type PlayerRepository struct {
	db *store.Database
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *store.Database) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// ListWithProjections returns every player joined with its active
// projections. Projections whose player row is missing are kept, and players
// without a projection appear once with a NULL line.
func (r *PlayerRepository) ListWithProjections(ctx context.Context) ([]domain.PlayerProjection, error) {
	query := `
		SELECT COALESCE(pr.player_key, p.player_key) AS player_key,
			p.name, p.team, p.position, p.headshot_url,
			pr.line_score, pr.stat_type, pr.description, pr.start_time
		FROM projections pr
		FULL OUTER JOIN players p ON p.player_key = pr.player_key
		ORDER BY COALESCE(p.name, pr.player_key), pr.stat_type
	`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	return scanPlayerProjections(rows)
}

func scanPlayerProjections(rows *sql.Rows) ([]domain.PlayerProjection, error) {
	var out []domain.PlayerProjection
	for rows.Next() {
		var row store.PlayerProjectionRow
		err := rows.Scan(
			&row.PlayerKey, &row.Name, &row.Team, &row.Position, &row.HeadshotURL,
			&row.LineScore, &row.StatType, &row.Description, &row.StartTime,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		out = append(out, row.ToDomain())
	}
	return out, rows.Err()
}
