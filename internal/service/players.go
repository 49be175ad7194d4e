package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/moduel/propdash/internal/domain"
)

// PlayerService builds the player card view model
type PlayerService struct {
	reader       Reader
	headshotBase string
}

// NewPlayerService creates a new player service. headshotBase, when set, is
// used to build a headshot URL for players whose record has none.
func NewPlayerService(reader Reader, headshotBase string) *PlayerService {
	return &PlayerService{reader: reader, headshotBase: strings.TrimRight(headshotBase, "/")}
}

// ListPlayers joins every projection with its player and latest analysis.
// A non-empty stat restricts the list to that stat type. Players without an
// analysis are still listed with confidence 0.
func (s *PlayerService) ListPlayers(ctx context.Context, stat domain.StatType) ([]domain.PlayerView, error) {
	projections, err := s.reader.ListPlayerProjections(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}

	analyses, err := s.reader.ListAnalyses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching analyses: %w", err)
	}

	views := make([]domain.PlayerView, 0, len(projections))
	for _, p := range projections {
		if stat != "" && effectiveStat(p) != stat {
			continue
		}
		views = append(views, s.view(p, analyses))
	}
	return views, nil
}

func (s *PlayerService) view(p domain.PlayerProjection, analyses map[string]domain.Analysis) domain.PlayerView {
	stat := effectiveStat(p)
	key := p.PlayerKey
	if key == "" {
		key = domain.NormalizeName(p.Name)
	}

	v := domain.PlayerView{
		ID:          key,
		DisplayName: orDefault(p.Name, domain.UnknownPlayer),
		Team:        orDefault(p.Team, domain.UnknownTeam),
		Position:    orDefault(p.Position, domain.PositionNA),
		HeadshotURL: p.HeadshotURL,
		PropLine:    p.Line,
		StatType:    stat,
		Opponent:    orDefault(p.Opponent, domain.UnknownOpponent),
		Reasons:     make([]string, domain.ReasonCount),
	}
	if v.HeadshotURL == "" {
		v.HeadshotURL = s.HeadshotURL(p.Name, p.Team)
	}

	a, ok := analyses[domain.AnalysisKey(key, stat)]
	if !ok {
		a, ok = analyses[domain.AnalysisKey(key, "")]
	}
	if ok {
		v.HasAnalysis = true
		v.ConfidenceLevel = a.Confidence()
		copy(v.Reasons, a.Reasons[:])
		v.FinalConclusion = a.FinalConclusion
	}
	return v
}

// HeadshotURL builds the fallback headshot location for a player, or "" when
// no base is configured or the name or team is unknown.
func (s *PlayerService) HeadshotURL(name, team string) string {
	if s.headshotBase == "" || strings.TrimSpace(name) == "" || strings.TrimSpace(team) == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/images/%s-headshot.jpg", s.headshotBase, domain.Slug(name), domain.Slug(team))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
