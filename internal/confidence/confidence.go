// Package confidence implements the last-five-games heuristic that maps
// over/under outcomes against a prop line onto a fixed confidence table.
package confidence

import (
	"fmt"
	"strings"

	"github.com/moduel/propdash/internal/domain"
)

// Sample size and the top of the heuristic's raw scale.
const (
	SampleSize = 5
	Scale      = 150.0
)

// Table values.
const (
	StrongOver  = 150.0
	LeanOver    = 112.5
	Neutral     = 75.0
	LeanUnder   = 37.5
	StrongUnder = 0.0
)

// Comparator decides whether a game's stat counts as "over" the line.
type Comparator string

const (
	GreaterOrEqual Comparator = "gte"
	Greater        Comparator = "gt"
)

// ParseComparator accepts "gte"/">=" and "gt"/">". Empty means gte.
func ParseComparator(s string) (Comparator, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "gte", ">=":
		return GreaterOrEqual, nil
	case "gt", ">":
		return Greater, nil
	}
	return "", fmt.Errorf("unknown comparator %q (want gte or gt)", s)
}

// Over reports whether value beats line under this comparator.
func (c Comparator) Over(value, line float64) bool {
	if c == Greater {
		return value > line
	}
	return value >= line
}

// Result is the outcome of scoring one player's recent games.
type Result struct {
	Raw        float64 `json:"raw"`
	Confidence float64 `json:"confidence"`
	OverCount  int     `json:"over_count"`
	UnderCount int     `json:"under_count"`
	Games      int     `json:"games"`
}

// Score applies the lookup table to a set of over (true) / under (false)
// outcomes. An empty sample scores 0.
func Score(outcomes []bool) float64 {
	if len(outcomes) == 0 {
		return StrongUnder
	}

	over := 0
	for _, o := range outcomes {
		if o {
			over++
		}
	}
	under := len(outcomes) - over

	switch {
	case over >= 4:
		return StrongOver
	case over >= 3:
		return LeanOver
	case under >= 4:
		return StrongUnder
	case under >= 3:
		return LeanUnder
	default:
		return Neutral
	}
}

// Evaluate scores stat values ordered most recent first. Only the first
// SampleSize values are considered.
func Evaluate(values []float64, line float64, cmp Comparator) Result {
	if len(values) > SampleSize {
		values = values[:SampleSize]
	}

	outcomes := make([]bool, len(values))
	res := Result{Games: len(values)}
	for i, v := range values {
		outcomes[i] = cmp.Over(v, line)
		if outcomes[i] {
			res.OverCount++
		} else {
			res.UnderCount++
		}
	}

	res.Raw = Score(outcomes)
	res.Confidence = Normalize(res.Raw)
	return res
}

// EvaluateGames scores a game log (most recent first) on the given stat.
func EvaluateGames(games []domain.GameLine, stat domain.StatType, line float64, cmp Comparator) Result {
	values := make([]float64, len(games))
	for i, g := range games {
		values[i] = g.StatValue(stat)
	}
	return Evaluate(values, line, cmp)
}

// Normalize maps a raw table value onto the 0-100 display scale.
func Normalize(raw float64) float64 {
	return domain.PresentConfidence(raw, Scale)
}
