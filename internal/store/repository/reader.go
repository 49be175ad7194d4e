package repository

import (
	"context"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/domain"
	"github.com/moduel/propdash/internal/metrics"
	"github.com/moduel/propdash/internal/store"
)

const backend = "postgres"

// Reader adapts the relational schema to the canonical read model
type Reader struct {
	db       *store.Database
	players  *PlayerRepository
	games    *GameRepository
	analyses *AnalysisRepository
}

// NewReader creates a relational read adapter
func NewReader(db *store.Database) *Reader {
	return &Reader{
		db:       db,
		players:  NewPlayerRepository(db),
		games:    NewGameRepository(db),
		analyses: NewAnalysisRepository(db),
	}
}

// ListPlayerProjections returns players joined with their projections
func (r *Reader) ListPlayerProjections(ctx context.Context) ([]domain.PlayerProjection, error) {
	out, err := r.players.ListWithProjections(ctx)
	return out, observe("list_players", err)
}

// LatestAnalysis returns the latest analysis for a player key and stat type
func (r *Reader) LatestAnalysis(ctx context.Context, playerKey string, stat domain.StatType) (*domain.Analysis, error) {
	out, err := r.analyses.GetLatest(ctx, playerKey, stat)
	return out, observe("latest_analysis", err)
}

// ListAnalyses returns the latest analyses keyed by domain.AnalysisKey
func (r *Reader) ListAnalyses(ctx context.Context) (map[string]domain.Analysis, error) {
	out, err := r.analyses.ListLatest(ctx)
	return out, observe("list_analyses", err)
}

// RecentGames returns up to limit games for the player, newest first
func (r *Reader) RecentGames(ctx context.Context, playerName string, limit int) ([]domain.GameLine, error) {
	out, err := r.games.GetRecentByPlayer(ctx, domain.NormalizeName(playerName), limit)
	return out, observe("recent_games", err)
}

// GameStats returns the player's box score for a game
func (r *Reader) GameStats(ctx context.Context, gameID, playerName string) (*domain.GameStats, error) {
	out, err := r.games.GetPlayerGameStats(ctx, gameID, domain.NormalizeName(playerName))
	return out, observe("game_stats", err)
}

// Ping checks the database connection
func (r *Reader) Ping(ctx context.Context) error {
	return observe("ping", r.db.HealthCheck(ctx))
}

// observe records the query outcome and classifies driver errors as upstream
// failures. Not-found errors pass through untouched.
func observe(operation string, err error) error {
	status := "ok"
	switch {
	case err == nil:
	case apperr.Is(err, apperr.KindNotFound):
		status = "not_found"
	default:
		status = "error"
		err = apperr.Upstream("store query failed", err)
	}
	metrics.StoreQueriesTotal.WithLabelValues(backend, operation, status).Inc()
	return err
}
