package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/confidence"
	"github.com/moduel/propdash/internal/domain"
)

// MaxRecentGames is the largest game log the service returns.
const MaxRecentGames = confidence.SampleSize

// GameService serves game logs and box scores
type GameService struct {
	reader Reader
	cmp    confidence.Comparator
}

// NewGameService creates a new game service
func NewGameService(reader Reader, cmp confidence.Comparator) *GameService {
	return &GameService{reader: reader, cmp: cmp}
}

// GameLogEntry is one game of a log with its value on the requested stat.
type GameLogEntry struct {
	domain.GameLine
	StatValue float64 `json:"stat_value"`
	// Over is set only when the player has an active line on the stat.
	Over *bool `json:"over,omitempty"`
}

// GameLog is the last-games response: games oldest first, plus the line
// and heuristic confidence when a projection exists.
type GameLog struct {
	PlayerName string             `json:"player_name"`
	StatType   domain.StatType    `json:"stat_type"`
	Line       *float64           `json:"line,omitempty"`
	Result     []GameLogEntry     `json:"result"`
	Confidence *confidence.Result `json:"confidence,omitempty"`
}

// clampGames bounds n to [1, MaxRecentGames].
func clampGames(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxRecentGames:
		return MaxRecentGames
	}
	return n
}

// LastNGames returns the player's n most recent games ordered oldest to
// newest. n is clamped to [1, 5].
func (s *GameService) LastNGames(ctx context.Context, playerName string, n int) ([]domain.GameLine, error) {
	if strings.TrimSpace(playerName) == "" {
		return nil, apperr.BadRequest("Missing playerName")
	}
	n = clampGames(n)

	games, err := s.reader.RecentGames(ctx, playerName, n)
	if err != nil {
		return nil, fmt.Errorf("fetching recent games: %w", err)
	}
	if len(games) > n {
		games = games[:n]
	}

	asc := make([]domain.GameLine, len(games))
	for i, g := range games {
		asc[len(games)-1-i] = g
	}
	return asc, nil
}

// GameLog returns the last n games annotated against the player's current
// line on stat.
func (s *GameService) GameLog(ctx context.Context, playerName string, stat domain.StatType, n int) (*GameLog, error) {
	games, err := s.LastNGames(ctx, playerName, n)
	if err != nil {
		return nil, err
	}
	if stat == "" {
		stat = domain.StatPoints
	}

	projections, err := s.reader.ListPlayerProjections(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}
	proj, hasLine := findProjection(projections, domain.NormalizeName(playerName), stat)

	out := &GameLog{
		PlayerName: playerName,
		StatType:   stat,
		Result:     make([]GameLogEntry, len(games)),
	}
	for i, g := range games {
		out.Result[i] = GameLogEntry{GameLine: g, StatValue: g.StatValue(stat)}
		if hasLine {
			over := s.cmp.Over(out.Result[i].StatValue, proj.Line)
			out.Result[i].Over = &over
		}
	}

	if hasLine {
		line := proj.Line
		out.Line = &line
		res := confidence.EvaluateGames(newestFirst(games), stat, line, s.cmp)
		out.Confidence = &res
	}
	return out, nil
}

// GameStats returns a single-game box score. playerName may use hyphens in
// place of spaces, as produced by URL slugs.
func (s *GameService) GameStats(ctx context.Context, gameID, playerName string) (*domain.GameStats, error) {
	gameID = strings.TrimSpace(gameID)
	name := domain.NameFromURL(playerName)
	if gameID == "" || name == "" {
		return nil, apperr.BadRequest("Missing gameId or playerName")
	}

	stats, err := s.reader.GameStats(ctx, gameID, name)
	if err != nil {
		return nil, fmt.Errorf("fetching game stats: %w", err)
	}
	stats.FillOpponent()
	return stats, nil
}

func newestFirst(asc []domain.GameLine) []domain.GameLine {
	out := make([]domain.GameLine, len(asc))
	for i, g := range asc {
		out[len(asc)-1-i] = g
	}
	return out
}
