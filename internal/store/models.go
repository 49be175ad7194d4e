package store

import (
	"database/sql"
	"time"

	"github.com/moduel/propdash/internal/domain"
)

// PlayerProjectionRow is one row of the players/projections outer join
type PlayerProjectionRow struct {
	PlayerKey   string          `db:"player_key"`
	Name        sql.NullString  `db:"name"`
	Team        sql.NullString  `db:"team"`
	Position    sql.NullString  `db:"position"`
	HeadshotURL sql.NullString  `db:"headshot_url"`
	LineScore   sql.NullFloat64 `db:"line_score"`
	StatType    sql.NullString  `db:"stat_type"`
	Description sql.NullString  `db:"description"`
	StartTime   sql.NullTime    `db:"start_time"`
}

// ToDomain converts the row into the canonical projection record
func (r PlayerProjectionRow) ToDomain() domain.PlayerProjection {
	p := domain.PlayerProjection{
		PlayerKey:     r.PlayerKey,
		Name:          r.Name.String,
		Team:          r.Team.String,
		Position:      r.Position.String,
		HeadshotURL:   r.HeadshotURL.String,
		Opponent:      r.Description.String,
		HasProjection: r.LineScore.Valid,
	}
	if r.LineScore.Valid {
		p.Line = r.LineScore.Float64
	}
	if r.StatType.Valid && r.StatType.String != "" {
		p.StatType = domain.StatType(r.StatType.String)
	}
	if r.StartTime.Valid {
		p.StartTime = r.StartTime.Time
	}
	return p
}

// AnalysisRow represents a row of analysis_results
type AnalysisRow struct {
	ID              int64           `db:"id"`
	PlayerKey       string          `db:"player_key"`
	PlayerName      string          `db:"player_name"`
	StatType        string          `db:"stat_type"`
	ConfidenceLevel float64         `db:"confidence_level"`
	ConfidenceScale sql.NullFloat64 `db:"confidence_scale"`
	Reason1         sql.NullString  `db:"reason_1"`
	Reason2         sql.NullString  `db:"reason_2"`
	Reason3         sql.NullString  `db:"reason_3"`
	Reason4         sql.NullString  `db:"reason_4"`
	FinalConclusion sql.NullString  `db:"final_conclusion"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// ToDomain converts the row into the canonical analysis record
func (r AnalysisRow) ToDomain() domain.Analysis {
	return domain.Analysis{
		PlayerKey:       r.PlayerKey,
		PlayerName:      r.PlayerName,
		StatType:        domain.StatType(r.StatType),
		ConfidenceLevel: r.ConfidenceLevel,
		ConfidenceScale: r.ConfidenceScale.Float64,
		Reasons: [domain.ReasonCount]string{
			r.Reason1.String, r.Reason2.String, r.Reason3.String, r.Reason4.String,
		},
		FinalConclusion: r.FinalConclusion.String,
		UpdatedAt:       r.UpdatedAt,
	}
}

// GameStatsRow represents a game_stats row joined with its game
type GameStatsRow struct {
	GameID            string          `db:"game_id"`
	GameDate          time.Time       `db:"game_date"`
	HomeTeam          sql.NullString  `db:"home_team"`
	AwayTeam          sql.NullString  `db:"away_team"`
	PlayerName        string          `db:"player_name"`
	Team              sql.NullString  `db:"team"`
	Opponent          sql.NullString  `db:"opponent"`
	Minutes           sql.NullFloat64 `db:"minutes"`
	Rebounds          int             `db:"rebounds"`
	OffensiveRebounds int             `db:"offensive_rebounds"`
	DefensiveRebounds int             `db:"defensive_rebounds"`
	Assists           int             `db:"assists"`
	Steals            int             `db:"steals"`
	Blocks            int             `db:"blocks"`
	Turnovers         int             `db:"turnovers"`
	PersonalFouls     int             `db:"personal_fouls"`
	Points            int             `db:"points"`
	FGMade            int             `db:"fg_made"`
	FGAttempted       int             `db:"fg_attempted"`
	ThreeMade         int             `db:"three_made"`
	ThreeAttempted    int             `db:"three_attempted"`
	FTMade            int             `db:"ft_made"`
	FTAttempted       int             `db:"ft_attempted"`
}

// ToDomain converts the row into a box score with its opponent resolved
func (r GameStatsRow) ToDomain() domain.GameStats {
	gs := domain.GameStats{
		GameID:            r.GameID,
		PlayerName:        r.PlayerName,
		Team:              r.Team.String,
		HomeTeam:          r.HomeTeam.String,
		AwayTeam:          r.AwayTeam.String,
		Opponent:          r.Opponent.String,
		GameDate:          r.GameDate,
		Minutes:           r.Minutes.Float64,
		Rebounds:          r.Rebounds,
		OffensiveRebounds: r.OffensiveRebounds,
		DefensiveRebounds: r.DefensiveRebounds,
		Assists:           r.Assists,
		Steals:            r.Steals,
		Blocks:            r.Blocks,
		Turnovers:         r.Turnovers,
		PersonalFouls:     r.PersonalFouls,
		Points:            r.Points,
		FieldGoalsMade:    r.FGMade,
		FieldGoalsAtt:     r.FGAttempted,
		ThreesMade:        r.ThreeMade,
		ThreesAtt:         r.ThreeAttempted,
		FreeThrowsMade:    r.FTMade,
		FreeThrowsAtt:     r.FTAttempted,
	}
	gs.FillOpponent()
	return gs
}

// GameLine projects the box score down to the game log columns
func (r GameStatsRow) GameLine() domain.GameLine {
	return domain.GameLine{
		GameID:   r.GameID,
		GameDate: r.GameDate,
		Points:   r.Points,
		Rebounds: r.Rebounds,
		Assists:  r.Assists,
	}
}
