package service

import (
	"context"

	"github.com/moduel/propdash/internal/domain"
)

// Reader is the read port every store adapter implements. Adapters translate
// their own record shapes into domain types and report missing records as
// apperr NotFound errors.
type Reader interface {
	ListPlayerProjections(ctx context.Context) ([]domain.PlayerProjection, error)
	// LatestAnalysis returns the newest analysis for a normalized player key.
	// An empty stat type addresses the player-level analysis.
	LatestAnalysis(ctx context.Context, playerKey string, stat domain.StatType) (*domain.Analysis, error)
	// ListAnalyses returns the newest analyses keyed by domain.AnalysisKey.
	ListAnalyses(ctx context.Context) (map[string]domain.Analysis, error)
	// RecentGames returns up to limit games, newest first.
	RecentGames(ctx context.Context, playerName string, limit int) ([]domain.GameLine, error)
	GameStats(ctx context.Context, gameID, playerName string) (*domain.GameStats, error)
	Ping(ctx context.Context) error
}

// AnalysisCache is an optional read-through cache in front of LatestAnalysis.
type AnalysisCache interface {
	GetAnalysis(ctx context.Context, key string) (*domain.Analysis, bool)
	SetAnalysis(ctx context.Context, key string, a *domain.Analysis)
}

// findProjection returns the active projection of a player for one stat.
func findProjection(all []domain.PlayerProjection, playerKey string, stat domain.StatType) (domain.PlayerProjection, bool) {
	for _, p := range all {
		if p.PlayerKey == playerKey && p.HasProjection && effectiveStat(p) == stat {
			return p, true
		}
	}
	return domain.PlayerProjection{}, false
}

func effectiveStat(p domain.PlayerProjection) domain.StatType {
	if p.StatType == "" {
		return domain.StatPoints
	}
	return p.StatType
}
