// Package domain holds the canonical view model shared by the read API, the
// presentation layer and every store adapter. Store record shapes never leave
// their adapter; they are translated into these types first.
package domain

import (
	"math"
	"strings"
	"time"
)

// Display fallbacks used when ingestion left a field empty.
const (
	UnknownPlayer   = "Unknown Player"
	UnknownTeam     = "Unknown Team"
	UnknownOpponent = "Unknown Opponent"
	PositionNA      = "N/A"
)

// ReasonCount is the number of numbered reasons an analysis carries.
const ReasonCount = 4

// StatType is the statistic a prop line is set on.
type StatType string

const (
	StatPoints      StatType = "Points"
	StatRebounds    StatType = "Rebounds"
	StatAssists     StatType = "Assists"
	StatPtsRebsAsts StatType = "Pts+Rebs+Asts"
)

// ParseStatType resolves a user supplied stat name. Empty input means points.
func ParseStatType(s string) (StatType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "points", "pts":
		return StatPoints, true
	case "rebounds", "reb", "rebs":
		return StatRebounds, true
	case "assists", "ast", "asts":
		return StatAssists, true
	case "pts+rebs+asts", "pra", "combined":
		return StatPtsRebsAsts, true
	default:
		return "", false
	}
}

// NormalizeName produces the store key for a player: lower case with spaces
// replaced by underscores.
func NormalizeName(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "_")
}

// NameFromURL converts a hyphenated URL name ("jane-doe") back to a display
// name ("jane doe").
func NameFromURL(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "-", " "))
}

// Slug converts a display name into the hyphenated form used in URLs.
func Slug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, "-")
}

// PlayerProjection is a player joined with its active projection, as read
// from any store adapter.
type PlayerProjection struct {
	PlayerKey     string
	Name          string
	Team          string
	Position      string
	HeadshotURL   string
	Line          float64
	StatType      StatType
	Opponent      string
	StartTime     time.Time
	HasProjection bool
}

// Analysis is the latest prediction output for a player and stat type.
type Analysis struct {
	PlayerKey       string              `json:"player_key"`
	PlayerName      string              `json:"player_name"`
	StatType        StatType            `json:"stat_type"`
	ConfidenceLevel float64             `json:"confidence_level"`
	ConfidenceScale float64             `json:"-"`
	Reasons         [ReasonCount]string `json:"-"`
	FinalConclusion string              `json:"final_conclusion"`
	UpdatedAt       time.Time           `json:"updated_at,omitempty"`
}

// AnalysisKey identifies the latest analysis of a player for one stat type.
// An empty stat type addresses the player-level analysis.
func AnalysisKey(playerKey string, stat StatType) string {
	return playerKey + "|" + string(stat)
}

// Confidence returns the analysis confidence on the 0-100 display scale.
func (a *Analysis) Confidence() float64 {
	if a == nil {
		return 0
	}
	return PresentConfidence(a.ConfidenceLevel, a.ConfidenceScale)
}

// PresentConfidence maps a stored confidence onto 0-100. A zero scale means the
// adapter did not record one: values above 100 can only come from the
// quantized 0-150 heuristic, anything else is taken as already 0-100.
func PresentConfidence(raw, scale float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0
	}
	if scale <= 0 {
		scale = 100
		if raw > 100 {
			scale = 150
		}
	}
	v := raw / scale * 100
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return math.Round(v*10) / 10
}

// PlayerView is the record the presentation layer renders for one card.
type PlayerView struct {
	ID              string   `json:"id"`
	DisplayName     string   `json:"displayName"`
	Team            string   `json:"team"`
	Position        string   `json:"position"`
	HeadshotURL     string   `json:"headshotUrl"`
	PropLine        float64  `json:"propLine"`
	StatType        StatType `json:"statType"`
	Opponent        string   `json:"opponent"`
	ConfidenceLevel float64  `json:"confidenceLevel"`
	Reasons         []string `json:"reasons"`
	FinalConclusion string   `json:"finalConclusion"`
	HasAnalysis     bool     `json:"hasAnalysis"`
}

// GameLine is one row of a player's game log.
type GameLine struct {
	GameID   string    `json:"game_id"`
	GameDate time.Time `json:"game_date"`
	Points   int       `json:"pts"`
	Rebounds int       `json:"reb"`
	Assists  int       `json:"ast"`
}

// StatValue returns the value of the given stat for this game.
func (g GameLine) StatValue(stat StatType) float64 {
	switch stat {
	case StatRebounds:
		return float64(g.Rebounds)
	case StatAssists:
		return float64(g.Assists)
	case StatPtsRebsAsts:
		return float64(g.Points + g.Rebounds + g.Assists)
	default:
		return float64(g.Points)
	}
}

// GameStats is a player's box score for a single game.
type GameStats struct {
	GameID            string    `json:"game_id"`
	PlayerName        string    `json:"player_name"`
	Team              string    `json:"team"`
	HomeTeam          string    `json:"home_team,omitempty"`
	AwayTeam          string    `json:"away_team,omitempty"`
	Opponent          string    `json:"opponent"`
	OpponentKnown     bool      `json:"opponent_known"`
	GameDate          time.Time `json:"game_date"`
	Minutes           float64   `json:"min"`
	Rebounds          int       `json:"reb"`
	OffensiveRebounds int       `json:"offensive_rebounds"`
	DefensiveRebounds int       `json:"defensive_rebounds"`
	Assists           int       `json:"ast"`
	Steals            int       `json:"stl"`
	Blocks            int       `json:"blk"`
	Turnovers         int       `json:"turnovers"`
	PersonalFouls     int       `json:"pf"`
	Points            int       `json:"pts"`
	FieldGoalsMade    int       `json:"fg_m"`
	FieldGoalsAtt     int       `json:"fg_a"`
	ThreesMade        int       `json:"three_pt_m"`
	ThreesAtt         int       `json:"three_pt_a"`
	FreeThrowsMade    int       `json:"ft_m"`
	FreeThrowsAtt     int       `json:"ft_a"`
}

// ResolveOpponent picks the side of a home/away pair that is not the player's
// team. The second result is false when neither side matches.
func ResolveOpponent(team, home, away string) (string, bool) {
	t := strings.TrimSpace(strings.ToLower(team))
	if t == "" {
		return "", false
	}
	switch t {
	case strings.TrimSpace(strings.ToLower(home)):
		return away, away != ""
	case strings.TrimSpace(strings.ToLower(away)):
		return home, home != ""
	}
	return "", false
}

// FillOpponent sets Opponent and OpponentKnown. A stored opponent wins over the
// derived one.
func (g *GameStats) FillOpponent() {
	if g.Opponent != "" {
		g.OpponentKnown = true
		return
	}
	g.Opponent, g.OpponentKnown = ResolveOpponent(g.Team, g.HomeTeam, g.AwayTeam)
}
