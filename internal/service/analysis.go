package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/domain"
)

// AnalysisService serves the latest analysis of a player
type AnalysisService struct {
	reader Reader
	cache  AnalysisCache
}

// NewAnalysisService creates a new analysis service. cache may be nil.
func NewAnalysisService(reader Reader, cache AnalysisCache) *AnalysisService {
	return &AnalysisService{reader: reader, cache: cache}
}

// AnalysisStatus is the analysis record returned by the status endpoint.
// Confidence is on the 0-100 display scale.
type AnalysisStatus struct {
	PlayerKey       string          `json:"player_key"`
	PlayerName      string          `json:"player_name"`
	StatType        domain.StatType `json:"stat_type,omitempty"`
	ConfidenceLevel float64         `json:"confidence_level"`
	Reason1         string          `json:"reason_1"`
	Reason2         string          `json:"reason_2"`
	Reason3         string          `json:"reason_3"`
	Reason4         string          `json:"reason_4"`
	FinalConclusion string          `json:"final_conclusion"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewAnalysisStatus flattens an analysis for the wire.
func NewAnalysisStatus(a *domain.Analysis) AnalysisStatus {
	return AnalysisStatus{
		PlayerKey:       a.PlayerKey,
		PlayerName:      a.PlayerName,
		StatType:        a.StatType,
		ConfidenceLevel: a.Confidence(),
		Reason1:         a.Reasons[0],
		Reason2:         a.Reasons[1],
		Reason3:         a.Reasons[2],
		Reason4:         a.Reasons[3],
		FinalConclusion: a.FinalConclusion,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ParseAnalysisStat resolves the optional statType parameter. Empty means
// the player-level analysis.
func ParseAnalysisStat(raw string) (domain.StatType, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	stat, ok := domain.ParseStatType(raw)
	if !ok {
		return "", apperr.BadRequest(fmt.Sprintf("Unknown statType %q", raw))
	}
	return stat, nil
}

// Latest returns the newest analysis for the player. A stat-specific request
// falls back to the player-level analysis.
func (s *AnalysisService) Latest(ctx context.Context, playerName string, stat domain.StatType) (*domain.Analysis, error) {
	if strings.TrimSpace(playerName) == "" {
		return nil, apperr.BadRequest("Missing playerName")
	}
	key := domain.NormalizeName(playerName)
	cacheKey := domain.AnalysisKey(key, stat)

	if s.cache != nil {
		if a, ok := s.cache.GetAnalysis(ctx, cacheKey); ok {
			return a, nil
		}
	}

	a, err := s.reader.LatestAnalysis(ctx, key, stat)
	if stat != "" && apperr.Is(err, apperr.KindNotFound) {
		a, err = s.reader.LatestAnalysis(ctx, key, "")
	}
	if err != nil {
		return nil, fmt.Errorf("fetching analysis: %w", err)
	}

	if s.cache != nil {
		s.cache.SetAnalysis(ctx, cacheKey, a)
	}
	return a, nil
}

// Status returns the latest analysis flattened for the status endpoint.
func (s *AnalysisService) Status(ctx context.Context, playerName string, stat domain.StatType) (*AnalysisStatus, error) {
	a, err := s.Latest(ctx, playerName, stat)
	if err != nil {
		return nil, err
	}
	st := NewAnalysisStatus(a)
	return &st, nil
}
