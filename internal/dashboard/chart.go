package dashboard

import (
	"fmt"
	"math"

	"github.com/moduel/propdash/internal/confidence"
	"github.com/moduel/propdash/internal/domain"
)

// Chart canvas in SVG user units.
const (
	chartWidth   = 480.0
	chartHeight  = 240.0
	chartPadLeft = 36.0
	chartPadTop  = 12.0
	chartPadBot  = 28.0
	barGapRatio  = 0.25
	dateLabel    = "1/2/2006"
)

// Bar is one game in the recent games chart.
type Bar struct {
	GameID string
	Label  string
	Value  float64
	Over   bool

	X, Y, Width, Height float64
}

// Chart is the laid-out recent games bar chart with its reference line.
type Chart struct {
	Title string
	Stat  domain.StatType
	Line  float64
	YMax  float64
	Bars  []Bar

	Width, Height float64
	PlotLeft      float64
	PlotBottom    float64
	LineY         float64
}

// BuildChart lays out games (oldest first) against line. Bars are labeled by
// date and flagged over when they beat the line under cmp. The y axis runs
// from 0 to the larger of the highest value and the line, rounded up.
func BuildChart(games []domain.GameLine, stat domain.StatType, line float64, cmp confidence.Comparator) Chart {
	if stat == "" {
		stat = domain.StatPoints
	}
	c := Chart{
		Title:      fmt.Sprintf("%s in Last %d Games", stat, len(games)),
		Stat:       stat,
		Line:       line,
		Width:      chartWidth,
		Height:     chartHeight,
		PlotLeft:   chartPadLeft,
		PlotBottom: chartHeight - chartPadBot,
	}

	yMax := line
	for _, g := range games {
		yMax = math.Max(yMax, g.StatValue(stat))
	}
	c.YMax = math.Ceil(yMax)
	if c.YMax <= 0 {
		c.YMax = 1
	}

	plotH := c.PlotBottom - chartPadTop
	plotW := chartWidth - chartPadLeft
	scale := func(v float64) float64 { return plotH * v / c.YMax }
	c.LineY = c.PlotBottom - scale(line)

	if len(games) == 0 {
		return c
	}
	slot := plotW / float64(len(games))
	barW := slot * (1 - barGapRatio)
	for i, g := range games {
		v := g.StatValue(stat)
		h := scale(v)
		c.Bars = append(c.Bars, Bar{
			GameID: g.GameID,
			Label:  g.GameDate.Format(dateLabel),
			Value:  v,
			Over:   cmp.Over(v, line),
			X:      chartPadLeft + float64(i)*slot + (slot-barW)/2,
			Y:      c.PlotBottom - h,
			Width:  barW,
			Height: h,
		})
	}
	return c
}
