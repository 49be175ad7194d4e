package docstore

import (
	"time"

	"github.com/moduel/propdash/internal/domain"
)

// playerDoc lives in the players collection; _id is the normalized name.
type playerDoc struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Team        string `bson:"team"`
	Position    string `bson:"position"`
	HeadshotURL string `bson:"headshot_url"`
}

// propLineDoc lives in prop_lines; _id is the player key it belongs to.
type propLineDoc struct {
	ID             string        `bson:"_id"`
	PropLine       float64       `bson:"prop_line"`
	ProjectionData projectionDoc `bson:"projection_data"`
}

type projectionDoc struct {
	LineScore   *float64  `bson:"line_score,omitempty"`
	StatType    string    `bson:"stat_type"`
	Description string    `bson:"description"`
	StartTime   time.Time `bson:"start_time,omitempty"`
}

// line prefers the projection's line score over the denormalized prop_line.
func (d propLineDoc) line() float64 {
	if d.ProjectionData.LineScore != nil {
		return *d.ProjectionData.LineScore
	}
	return d.PropLine
}

func toProjection(key string, p *playerDoc, pl *propLineDoc) domain.PlayerProjection {
	out := domain.PlayerProjection{PlayerKey: key}
	if p != nil {
		out.Name = p.Name
		out.Team = p.Team
		out.Position = p.Position
		out.HeadshotURL = p.HeadshotURL
	}
	if pl != nil {
		out.HasProjection = true
		out.Line = pl.line()
		out.StatType = domain.StatType(pl.ProjectionData.StatType)
		out.Opponent = pl.ProjectionData.Description
		out.StartTime = pl.ProjectionData.StartTime
	}
	return out
}

type analysisDoc struct {
	PlayerKey       string    `bson:"player_key"`
	PlayerName      string    `bson:"player_name"`
	StatType        string    `bson:"stat_type"`
	ConfidenceLevel float64   `bson:"confidence_level"`
	ConfidenceScale float64   `bson:"confidence_scale,omitempty"`
	Reason1         string    `bson:"reason_1"`
	Reason2         string    `bson:"reason_2"`
	Reason3         string    `bson:"reason_3"`
	Reason4         string    `bson:"reason_4"`
	FinalConclusion string    `bson:"final_conclusion"`
	UpdatedAt       time.Time `bson:"updated_at"`
}

func (d analysisDoc) toDomain() domain.Analysis {
	return domain.Analysis{
		PlayerKey:       d.PlayerKey,
		PlayerName:      d.PlayerName,
		StatType:        domain.StatType(d.StatType),
		ConfidenceLevel: d.ConfidenceLevel,
		ConfidenceScale: d.ConfidenceScale,
		Reasons:         [domain.ReasonCount]string{d.Reason1, d.Reason2, d.Reason3, d.Reason4},
		FinalConclusion: d.FinalConclusion,
		UpdatedAt:       d.UpdatedAt,
	}
}

// gameDoc is one player's line for one game in the games collection.
type gameDoc struct {
	GameID            string    `bson:"game_id"`
	PlayerKey         string    `bson:"player_key"`
	PlayerName        string    `bson:"player_name"`
	GameDate          time.Time `bson:"game_date"`
	Team              string    `bson:"team"`
	Opponent          string    `bson:"opponent"`
	HomeTeam          string    `bson:"home_team"`
	AwayTeam          string    `bson:"away_team"`
	Minutes           float64   `bson:"min"`
	Rebounds          int       `bson:"reb"`
	OffensiveRebounds int       `bson:"offensive_rebounds"`
	DefensiveRebounds int       `bson:"defensive_rebounds"`
	Assists           int       `bson:"ast"`
	Steals            int       `bson:"stl"`
	Blocks            int       `bson:"blk"`
	Turnovers         int       `bson:"turnovers"`
	PersonalFouls     int       `bson:"pf"`
	Points            int       `bson:"pts"`
	FGMade            int       `bson:"fg_m"`
	FGAttempted       int       `bson:"fg_a"`
	ThreeMade         int       `bson:"three_pt_m"`
	ThreeAttempted    int       `bson:"three_pt_a"`
	FTMade            int       `bson:"ft_m"`
	FTAttempted       int       `bson:"ft_a"`
}

func (d gameDoc) toGameLine() domain.GameLine {
	return domain.GameLine{
		GameID:   d.GameID,
		GameDate: d.GameDate,
		Points:   d.Points,
		Rebounds: d.Rebounds,
		Assists:  d.Assists,
	}
}

func (d gameDoc) toGameStats() domain.GameStats {
	gs := domain.GameStats{
		GameID:            d.GameID,
		PlayerName:        d.PlayerName,
		Team:              d.Team,
		HomeTeam:          d.HomeTeam,
		AwayTeam:          d.AwayTeam,
		Opponent:          d.Opponent,
		GameDate:          d.GameDate,
		Minutes:           d.Minutes,
		Rebounds:          d.Rebounds,
		OffensiveRebounds: d.OffensiveRebounds,
		DefensiveRebounds: d.DefensiveRebounds,
		Assists:           d.Assists,
		Steals:            d.Steals,
		Blocks:            d.Blocks,
		Turnovers:         d.Turnovers,
		PersonalFouls:     d.PersonalFouls,
		Points:            d.Points,
		FieldGoalsMade:    d.FGMade,
		FieldGoalsAtt:     d.FGAttempted,
		ThreesMade:        d.ThreeMade,
		ThreesAtt:         d.ThreeAttempted,
		FreeThrowsMade:    d.FTMade,
		FreeThrowsAtt:     d.FTAttempted,
	}
	gs.FillOpponent()
	return gs
}

// joinProjections merges players and prop lines by key. Every player is
// listed; prop lines without a player document are kept with an empty name.
func joinProjections(players []playerDoc, lines []propLineDoc) []domain.PlayerProjection {
	byKey := make(map[string]*propLineDoc, len(lines))
	for i := range lines {
		byKey[lines[i].ID] = &lines[i]
	}

	out := make([]domain.PlayerProjection, 0, len(players)+len(lines))
	seen := make(map[string]bool, len(players))
	for i := range players {
		p := &players[i]
		seen[p.ID] = true
		out = append(out, toProjection(p.ID, p, byKey[p.ID]))
	}
	for i := range lines {
		if !seen[lines[i].ID] {
			out = append(out, toProjection(lines[i].ID, nil, &lines[i]))
		}
	}
	return out
}
