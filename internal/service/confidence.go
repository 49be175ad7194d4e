package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/confidence"
	"github.com/moduel/propdash/internal/domain"
)

// ConfidenceService computes the last-games heuristic for a player's line
type ConfidenceService struct {
	reader Reader
	cmp    confidence.Comparator
}

// NewConfidenceService creates a new confidence service
func NewConfidenceService(reader Reader, cmp confidence.Comparator) *ConfidenceService {
	return &ConfidenceService{reader: reader, cmp: cmp}
}

// ConfidenceReport is the heuristic result for one player and stat.
type ConfidenceReport struct {
	PlayerName string          `json:"player_name"`
	StatType   domain.StatType `json:"stat_type"`
	Line       float64         `json:"line"`
	Comparator string          `json:"comparator"`
	confidence.Result
}

// Evaluate scores the player's five most recent games against the active
// line for stat. A player without a projection on stat is not found.
func (s *ConfidenceService) Evaluate(ctx context.Context, playerName string, stat domain.StatType) (*ConfidenceReport, error) {
	if strings.TrimSpace(playerName) == "" {
		return nil, apperr.BadRequest("Missing playerName")
	}
	if stat == "" {
		stat = domain.StatPoints
	}

	projections, err := s.reader.ListPlayerProjections(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	proj, ok := findProjection(projections, domain.NormalizeName(playerName), stat)
	if !ok {
		return nil, apperr.NotFound("No projection found for player")
	}

	games, err := s.reader.RecentGames(ctx, playerName, confidence.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("fetching recent games: %w", err)
	}

	return &ConfidenceReport{
		PlayerName: playerName,
		StatType:   stat,
		Line:       proj.Line,
		Comparator: string(s.cmp),
		Result:     confidence.EvaluateGames(games, stat, proj.Line, s.cmp),
	}, nil
}
