// Package dashboard renders the prop confidence dashboard: the player grid,
// the reason breakdown, the recent games chart and the single game box score.
// It also owns the analysis poller that keeps the visible cards fresh.
package dashboard

import (
	"strings"

	"github.com/moduel/propdash/internal/domain"
)

// HighConfidence is the display threshold for the "high" card color.
const HighConfidence = 70.0

// FilterPlayers keeps the players whose display name contains query, ignoring
// case. An empty query keeps everything. Order is preserved.
func FilterPlayers(players []domain.PlayerView, query string) []domain.PlayerView {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return players
	}

	out := make([]domain.PlayerView, 0, len(players))
	for _, p := range players {
		if strings.Contains(strings.ToLower(p.DisplayName), q) {
			out = append(out, p)
		}
	}
	return out
}

// ConfidenceClass buckets a 0-100 confidence for card coloring.
func ConfidenceClass(confidence float64) string {
	if confidence >= HighConfidence {
		return "high"
	}
	return "low"
}
