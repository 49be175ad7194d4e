package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/moduel/propdash/internal/domain"
	"github.com/moduel/propdash/internal/metrics"
	"github.com/rs/zerolog"
)

// AnalysisSource returns the latest analysis of a player.
type AnalysisSource interface {
	Latest(ctx context.Context, playerName string, stat domain.StatType) (*domain.Analysis, error)
}

// Update is pushed to the sinks whenever a polled analysis changes.
type Update struct {
	PlayerKey       string          `json:"player_key"`
	PlayerName      string          `json:"player_name"`
	StatType        domain.StatType `json:"stat_type"`
	ConfidenceLevel float64         `json:"confidence_level"`
	ConfidenceClass string          `json:"confidence_class"`
	Reasons         []string        `json:"reasons"`
	FinalConclusion string          `json:"final_conclusion"`
	UpdatedAt       time.Time       `json:"updated_at"`
	FetchedAt       time.Time       `json:"fetched_at"`
}

// UpdateSink receives changed analyses.
type UpdateSink interface {
	PushUpdate(ctx context.Context, u Update) error
}

// SinkFunc adapts a function to UpdateSink.
type SinkFunc func(ctx context.Context, u Update) error

// PushUpdate calls f.
func (f SinkFunc) PushUpdate(ctx context.Context, u Update) error { return f(ctx, u) }

// Entry is the cached analysis of one player.
type Entry struct {
	Analysis  domain.Analysis
	FetchedAt time.Time
}

// Stale reports whether the entry is older than maxAge at now.
func (e Entry) Stale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(e.FetchedAt) > maxAge
}

type visiblePlayer struct {
	key  string
	name string
	stat domain.StatType
}

// DefaultIdleIntervals is how many intervals the visible set survives without
// a grid render or a connected viewer.
const DefaultIdleIntervals = 12

// Poller keeps the analyses of the visible players fresh. Players are polled
// one at a time; a failed fetch keeps the previous entry. Entries are keyed
// per player and stat line.
type Poller struct {
	source    AnalysisSource
	sinks     []UpdateSink
	interval  time.Duration
	idleAfter time.Duration
	logger    zerolog.Logger
	now       func() time.Time
	viewers   func() int

	mu         sync.RWMutex
	visible    []visiblePlayer
	lastRender time.Time
	entries    map[string]Entry

	refreshing sync.Mutex
}

// NewPoller creates a poller that refreshes every interval.
func NewPoller(source AnalysisSource, interval time.Duration, logger zerolog.Logger, sinks ...UpdateSink) *Poller {
	return &Poller{
		source:    source,
		sinks:     sinks,
		interval:  interval,
		idleAfter: DefaultIdleIntervals * interval,
		logger:    logger,
		now:       time.Now,
		entries:   make(map[string]Entry),
	}
}

// SetViewers registers a live viewer count. While it reports viewers the
// visible set does not expire.
func (p *Poller) SetViewers(fn func() int) {
	p.mu.Lock()
	p.viewers = fn
	p.mu.Unlock()
}

// SetIdleAfter sets how long the visible set lives without a render or viewer.
func (p *Poller) SetIdleAfter(d time.Duration) {
	p.mu.Lock()
	p.idleAfter = d
	p.mu.Unlock()
}

// SetVisible replaces the set of players to poll.
func (p *Poller) SetVisible(players []domain.PlayerView) {
	visible := make([]visiblePlayer, 0, len(players))
	for _, pl := range players {
		visible = append(visible, visiblePlayer{key: pl.ID, name: pl.DisplayName, stat: pl.StatType})
	}
	p.mu.Lock()
	p.visible = visible
	p.lastRender = p.now()
	p.mu.Unlock()
}

// VisibleCount returns the number of players being polled.
func (p *Poller) VisibleCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.visible)
}

// Entry returns the cached analysis for a player key and stat line.
func (p *Poller) Entry(playerKey string, stat domain.StatType) (Entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.entries[domain.AnalysisKey(playerKey, stat)]
	return e, ok
}

// Apply overlays cached analyses onto player views that have a fresher one.
func (p *Poller) Apply(views []domain.PlayerView) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i := range views {
		e, ok := p.entries[domain.AnalysisKey(views[i].ID, views[i].StatType)]
		if !ok {
			continue
		}
		views[i].HasAnalysis = true
		views[i].ConfidenceLevel = e.Analysis.Confidence()
		views[i].Reasons = append([]string(nil), e.Analysis.Reasons[:]...)
		views[i].FinalConclusion = e.Analysis.FinalConclusion
	}
}

// Refresh polls every visible player once and returns the number of changed
// entries. It returns false without polling when a refresh is already running.
func (p *Poller) Refresh(ctx context.Context) (int, bool) {
	if !p.refreshing.TryLock() {
		return 0, false
	}
	defer p.refreshing.Unlock()

	p.mu.RLock()
	visible := append([]visiblePlayer(nil), p.visible...)
	p.mu.RUnlock()

	changed, failed := 0, 0
	for _, v := range visible {
		if ctx.Err() != nil {
			break
		}
		a, err := p.source.Latest(ctx, v.name, v.stat)
		if err != nil {
			failed++
			p.logger.Debug().Err(err).Str("player", v.name).Msg("Analysis poll failed")
			continue
		}

		entry := Entry{Analysis: *a, FetchedAt: p.now()}
		key := domain.AnalysisKey(v.key, v.stat)
		p.mu.Lock()
		prev, had := p.entries[key]
		p.entries[key] = entry
		p.mu.Unlock()

		if had && sameAnalysis(prev.Analysis, entry.Analysis) {
			continue
		}
		changed++
		p.push(ctx, v, entry)
	}

	status := "ok"
	if failed > 0 {
		status = "partial"
	}
	metrics.PollerCycles.WithLabelValues(status).Inc()
	return changed, true
}

// Run refreshes on every tick until ctx is cancelled. Ticks with no visible
// players do nothing. The visible set is dropped once nobody has rendered the
// grid for idleAfter and no viewer is connected.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info().Dur("interval", p.interval).Msg("Analysis poller started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Analysis poller stopped")
			return
		case <-ticker.C:
			if p.VisibleCount() == 0 {
				continue
			}
			if n, ran := p.Refresh(ctx); ran && n > 0 {
				p.logger.Debug().Int("changed", n).Msg("Polled analysis results")
			}
		}
	}
}

// active reports whether there is anything worth polling, expiring the
// visible set when it has gone unwatched.
func (p *Poller) active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.visible) == 0 {
		return false
	}
	if p.viewers != nil && p.viewers() > 0 {
		return true
	}
	if p.idleAfter > 0 && p.now().Sub(p.lastRender) > p.idleAfter {
		p.logger.Debug().Int("players", len(p.visible)).Msg("No viewers, dropping visible players")
		p.visible = nil
		return false
	}
	return true
}

func (p *Poller) push(ctx context.Context, v visiblePlayer, e Entry) {
	conf := e.Analysis.Confidence()
	u := Update{
		PlayerKey:       v.key,
		PlayerName:      v.name,
		StatType:        v.stat,
		ConfidenceLevel: conf,
		ConfidenceClass: ConfidenceClass(conf),
		Reasons:         append([]string(nil), e.Analysis.Reasons[:]...),
		FinalConclusion: e.Analysis.FinalConclusion,
		UpdatedAt:       e.Analysis.UpdatedAt,
		FetchedAt:       e.FetchedAt,
	}
	for _, s := range p.sinks {
		if err := s.PushUpdate(ctx, u); err != nil {
			p.logger.Warn().Err(err).Str("player", v.name).Msg("Failed to push analysis update")
		}
	}
}

func sameAnalysis(a, b domain.Analysis) bool {
	return a.UpdatedAt.Equal(b.UpdatedAt) &&
		a.Confidence() == b.Confidence() &&
		a.Reasons == b.Reasons &&
		a.FinalConclusion == b.FinalConclusion
}
