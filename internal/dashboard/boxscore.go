package dashboard

import (
	"fmt"
	"math"

	"github.com/moduel/propdash/internal/domain"
)

// ShootingPct is made/attempted as a percentage rounded to one decimal. No
// attempts reads as 0.
func ShootingPct(made, attempted int) float64 {
	if attempted <= 0 {
		return 0
	}
	return math.Round(float64(made)/float64(attempted)*1000) / 10
}

// StatItem is one labeled line of the box score.
type StatItem struct {
	Label string
	Value string
	Unit  string
}

// BoxScore groups a game's stat lines the way the dashboard lays them out.
type BoxScore struct {
	Title    string
	Basic    []StatItem
	Shooting []StatItem
	Advanced []StatItem
}

func madeAttempted(made, attempted int) string {
	return fmt.Sprintf("%d-%d", made, attempted)
}

func pct(made, attempted int) string {
	return fmt.Sprintf("%.1f", ShootingPct(made, attempted))
}

// BuildBoxScore formats a single game box score.
func BuildBoxScore(g *domain.GameStats) BoxScore {
	opp := g.Opponent
	if !g.OpponentKnown || opp == "" {
		opp = domain.UnknownOpponent
	}

	b := BoxScore{Title: fmt.Sprintf("Game Stats for %s vs. %s", g.PlayerName, opp)}
	b.Basic = []StatItem{
		{Label: "Points", Value: fmt.Sprint(g.Points)},
		{Label: "Rebounds", Value: fmt.Sprint(g.Rebounds)},
		{Label: "Assists", Value: fmt.Sprint(g.Assists)},
		{Label: "Steals", Value: fmt.Sprint(g.Steals)},
		{Label: "Blocks", Value: fmt.Sprint(g.Blocks)},
		{Label: "Turnovers", Value: fmt.Sprint(g.Turnovers)},
		{Label: "Personal Fouls", Value: fmt.Sprint(g.PersonalFouls)},
	}
	b.Shooting = []StatItem{
		{Label: "Field Goals", Value: madeAttempted(g.FieldGoalsMade, g.FieldGoalsAtt)},
		{Label: "Field Goal %", Value: pct(g.FieldGoalsMade, g.FieldGoalsAtt), Unit: "%"},
		{Label: "3-Pointers", Value: madeAttempted(g.ThreesMade, g.ThreesAtt)},
		{Label: "3-Point %", Value: pct(g.ThreesMade, g.ThreesAtt), Unit: "%"},
		{Label: "Free Throws", Value: madeAttempted(g.FreeThrowsMade, g.FreeThrowsAtt)},
		{Label: "Free Throw %", Value: pct(g.FreeThrowsMade, g.FreeThrowsAtt), Unit: "%"},
	}

	date := ""
	if !g.GameDate.IsZero() {
		date = g.GameDate.Format(dateLabel)
	}
	b.Advanced = []StatItem{
		{Label: "Minutes Played", Value: fmt.Sprint(g.Minutes), Unit: "min"},
		{Label: "Offensive Rebounds", Value: fmt.Sprint(g.OffensiveRebounds)},
		{Label: "Defensive Rebounds", Value: fmt.Sprint(g.DefensiveRebounds)},
		{Label: "Game Date", Value: date},
	}
	return b
}
