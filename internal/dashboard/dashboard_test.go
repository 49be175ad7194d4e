package dashboard

import (
	"testing"
	"time"

	"github.com/moduel/propdash/internal/confidence"
	"github.com/moduel/propdash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func views(names ...string) []domain.PlayerView {
	out := make([]domain.PlayerView, len(names))
	for i, n := range names {
		out[i] = domain.PlayerView{ID: domain.NormalizeName(n), DisplayName: n}
	}
	return out
}

func TestFilterPlayers(t *testing.T) {
	all := views("Jane Doe", "Ann Lee", "Janet Rose")

	assert.Len(t, FilterPlayers(all, ""), 3)
	assert.Len(t, FilterPlayers(all, "   "), 3)

	got := FilterPlayers(all, "JAN")
	require.Len(t, got, 2)
	assert.Equal(t, "Jane Doe", got[0].DisplayName)
	assert.Equal(t, "Janet Rose", got[1].DisplayName)

	assert.Empty(t, FilterPlayers(all, "zzz"))
}

func TestConfidenceClass(t *testing.T) {
	assert.Equal(t, "high", ConfidenceClass(70))
	assert.Equal(t, "high", ConfidenceClass(100))
	assert.Equal(t, "low", ConfidenceClass(69.9))
	assert.Equal(t, "low", ConfidenceClass(0))
}

func TestCleanReasonText(t *testing.T) {
	cases := map[string]string{
		"**Trend:** scoring up":   "scoring up",
		"**Trend**: scoring up":   "scoring up",
		"plain text":              "plain text",
		"mid **bold:** unchanged": "mid **bold:** unchanged",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanReasonText(in), in)
	}
}

func TestReasonPagerWraps(t *testing.T) {
	rp := NewReasonPager(domain.PlayerView{
		Reasons:         []string{"**Matchup:** good", "", "role", "flow"},
		FinalConclusion: "over",
	})

	cur := rp.Current()
	assert.Equal(t, 1, cur.Index)
	assert.Equal(t, "Performance Against Opposing Team", cur.Title)
	assert.Equal(t, "good", cur.Text)

	rp.Next()
	assert.Equal(t, NoText, rp.Current().Text)

	rp.Prev()
	rp.Prev()
	assert.Equal(t, 5, rp.Index())
	assert.Equal(t, "Final Reason for Confidence Level", rp.Current().Title)
	assert.Equal(t, "over", rp.Current().Text)

	rp.Next()
	assert.Equal(t, 1, rp.Index())

	rp.Seek(9)
	assert.Equal(t, 5, rp.Index())
	assert.Equal(t, 1, rp.NextIndex())
	assert.Equal(t, 4, rp.PrevIndex())
	rp.Seek(-1)
	assert.Equal(t, 1, rp.Index())
}

func TestBuildChart(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 2, d, 0, 0, 0, 0, time.UTC) }
	games := []domain.GameLine{
		{GameID: "1", GameDate: day(1), Points: 12},
		{GameID: "2", GameDate: day(3), Points: 20},
		{GameID: "3", GameDate: day(5), Points: 15},
	}

	c := BuildChart(games, domain.StatPoints, 15, confidence.GreaterOrEqual)
	require.Len(t, c.Bars, 3)
	assert.Equal(t, "Points in Last 3 Games", c.Title)
	assert.Equal(t, 20.0, c.YMax)
	assert.Equal(t, "2/1/2025", c.Bars[0].Label)
	assert.Equal(t, []bool{false, true, true}, []bool{c.Bars[0].Over, c.Bars[1].Over, c.Bars[2].Over})
	assert.Less(t, c.Bars[0].X, c.Bars[1].X)
	assert.InDelta(t, c.PlotBottom, c.Bars[1].Y+c.Bars[1].Height, 1e-9)

	strict := BuildChart(games, domain.StatPoints, 15, confidence.Greater)
	assert.False(t, strict.Bars[2].Over)

	high := BuildChart(games, domain.StatPoints, 24.5, confidence.GreaterOrEqual)
	assert.Equal(t, 25.0, high.YMax)
	assert.Less(t, high.LineY, high.PlotBottom)
}

func TestBuildChartEmpty(t *testing.T) {
	c := BuildChart(nil, "", 0, confidence.GreaterOrEqual)
	assert.Empty(t, c.Bars)
	assert.Equal(t, 1.0, c.YMax)
	assert.Equal(t, domain.StatPoints, c.Stat)
}

func TestShootingPct(t *testing.T) {
	assert.Equal(t, 50.0, ShootingPct(5, 10))
	assert.Equal(t, 33.3, ShootingPct(1, 3))
	assert.Equal(t, 66.7, ShootingPct(2, 3))
	assert.Equal(t, 0.0, ShootingPct(0, 0))
	assert.Equal(t, 0.0, ShootingPct(3, -1))
}

func TestBuildBoxScore(t *testing.T) {
	b := BuildBoxScore(&domain.GameStats{
		PlayerName:     "jane doe",
		Opponent:       "Rose",
		OpponentKnown:  true,
		Points:         21,
		FieldGoalsMade: 8, FieldGoalsAtt: 15,
		ThreesMade: 2, ThreesAtt: 0,
		GameDate: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, "Game Stats for jane doe vs. Rose", b.Title)
	assert.Equal(t, StatItem{Label: "Points", Value: "21"}, b.Basic[0])
	assert.Equal(t, "8-15", b.Shooting[0].Value)
	assert.Equal(t, "53.3", b.Shooting[1].Value)
	assert.Equal(t, "0.0", b.Shooting[3].Value)
	assert.Equal(t, "1/17/2025", b.Advanced[3].Value)

	unknown := BuildBoxScore(&domain.GameStats{PlayerName: "x"})
	assert.Equal(t, "Game Stats for x vs. Unknown Opponent", unknown.Title)
}
