package service

import (
	"context"
	"sort"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/domain"
)

// fakeReader is an in-memory Reader. games are keyed by normalized player
// name and kept in any order; RecentGames sorts them newest first.
type fakeReader struct {
	projections []domain.PlayerProjection
	analyses    []domain.Analysis
	games       map[string][]domain.GameLine
	stats       map[string]domain.GameStats // gameID|playerKey
	err         error

	latestCalls []string
}

func (f *fakeReader) ListPlayerProjections(context.Context) ([]domain.PlayerProjection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.projections, nil
}

func (f *fakeReader) LatestAnalysis(_ context.Context, key string, stat domain.StatType) (*domain.Analysis, error) {
	f.latestCalls = append(f.latestCalls, domain.AnalysisKey(key, stat))
	if f.err != nil {
		return nil, f.err
	}
	var best *domain.Analysis
	for i := range f.analyses {
		a := &f.analyses[i]
		if a.PlayerKey != key || a.StatType != stat {
			continue
		}
		if best == nil || a.UpdatedAt.After(best.UpdatedAt) {
			best = a
		}
	}
	if best == nil {
		return nil, apperr.NotFound("No analysis found for player")
	}
	cpy := *best
	return &cpy, nil
}

func (f *fakeReader) ListAnalyses(context.Context) (map[string]domain.Analysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]domain.Analysis{}
	for _, a := range f.analyses {
		k := domain.AnalysisKey(a.PlayerKey, a.StatType)
		if cur, ok := out[k]; !ok || a.UpdatedAt.After(cur.UpdatedAt) {
			out[k] = a
		}
	}
	return out, nil
}

func (f *fakeReader) RecentGames(_ context.Context, name string, limit int) ([]domain.GameLine, error) {
	if f.err != nil {
		return nil, f.err
	}
	games := append([]domain.GameLine(nil), f.games[domain.NormalizeName(name)]...)
	sort.Slice(games, func(i, j int) bool { return games[i].GameDate.After(games[j].GameDate) })
	if len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func (f *fakeReader) GameStats(_ context.Context, gameID, name string) (*domain.GameStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	gs, ok := f.stats[gameID+"|"+domain.NormalizeName(name)]
	if !ok {
		return nil, apperr.NotFound("Game stats not found")
	}
	return &gs, nil
}

func (f *fakeReader) Ping(context.Context) error { return f.err }

type mapCache struct {
	entries map[string]*domain.Analysis
	sets    int
}

func (m *mapCache) GetAnalysis(_ context.Context, key string) (*domain.Analysis, bool) {
	a, ok := m.entries[key]
	return a, ok
}

func (m *mapCache) SetAnalysis(_ context.Context, key string, a *domain.Analysis) {
	if m.entries == nil {
		m.entries = map[string]*domain.Analysis{}
	}
	m.entries[key] = a
	m.sets++
}
