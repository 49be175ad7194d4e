package dashboard

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/confidence"
	"github.com/moduel/propdash/internal/domain"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// PlayerLister lists the player cards.
type PlayerLister interface {
	ListPlayers(ctx context.Context, stat domain.StatType) ([]domain.PlayerView, error)
}

// GameReader serves recent games and box scores.
type GameReader interface {
	LastNGames(ctx context.Context, playerName string, n int) ([]domain.GameLine, error)
	GameStats(ctx context.Context, gameID, playerName string) (*domain.GameStats, error)
}

// Pages serves the server-rendered dashboard.
type Pages struct {
	players PlayerLister
	games   GameReader
	poller  *Poller
	cmp     confidence.Comparator
	logger  zerolog.Logger
	tmpl    map[string]*template.Template
}

// NewPages parses the embedded templates. poller may be nil.
func NewPages(players PlayerLister, games GameReader, poller *Poller, cmp confidence.Comparator, logger zerolog.Logger) (*Pages, error) {
	p := &Pages{
		players: players,
		games:   games,
		poller:  poller,
		cmp:     cmp,
		logger:  logger,
		tmpl:    make(map[string]*template.Template),
	}
	for _, name := range []string{"grid", "analysis", "last5", "game"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		p.tmpl[name] = t
	}
	return p, nil
}

// Register mounts the dashboard routes on r.
func (p *Pages) Register(r *mux.Router) {
	r.HandleFunc("/", p.handleGrid).Methods(http.MethodGet)
	r.HandleFunc("/players/{name}/analysis", p.handleAnalysis).Methods(http.MethodGet)
	r.HandleFunc("/players/{name}/last5", p.handleLast5).Methods(http.MethodGet)
	r.HandleFunc("/games/{gameID}/players/{name}", p.handleGame).Methods(http.MethodGet)
}

type page struct {
	Title string
	Query string
	Error string
}

type card struct {
	View  domain.PlayerView
	Slug  string
	Class string
	Width float64
}

func newCard(v domain.PlayerView) card {
	return card{View: v, Slug: domain.Slug(v.DisplayName), Class: ConfidenceClass(v.ConfidenceLevel), Width: v.ConfidenceLevel}
}

type gridPage struct {
	page
	Cards []card
}

type analysisPage struct {
	page
	card
	Section  Section
	Sections int
	Prev     int
	Next     int
}

type last5Page struct {
	page
	Name  string
	Slug  string
	Stat  domain.StatType
	Chart Chart
}

type gamePage struct {
	page
	Slug string
	Stat string
	Box  BoxScore
}

func (p *Pages) handleGrid(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	data := gridPage{page: page{Title: "Players", Query: query}}

	views, err := p.listPlayers(r.Context())
	if err != nil {
		p.renderError(w, "grid", &data.page, &data, err, "Failed to fetch players")
		return
	}
	visible := FilterPlayers(views, query)
	if p.poller != nil {
		p.poller.SetVisible(visible)
	}
	for _, v := range visible {
		data.Cards = append(data.Cards, newCard(v))
	}
	p.render(w, "grid", http.StatusOK, data)
}

func (p *Pages) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["name"]
	data := analysisPage{page: page{Title: "Reason Breakdown"}, Sections: SectionCount}

	view, err := p.findPlayer(r.Context(), slug, r.URL.Query().Get("statType"))
	if err != nil {
		p.renderError(w, "analysis", &data.page, &data, err, "Failed to fetch players")
		return
	}

	pager := NewReasonPager(view)
	if n, convErr := strconv.Atoi(r.URL.Query().Get("section")); convErr == nil {
		pager.Seek(n)
	}
	data.card = newCard(view)
	data.Title = view.DisplayName
	data.Section = pager.Current()
	data.Prev = pager.PrevIndex()
	data.Next = pager.NextIndex()
	p.render(w, "analysis", http.StatusOK, data)
}

func (p *Pages) handleLast5(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["name"]
	name := domain.NameFromURL(slug)
	data := last5Page{page: page{Title: "Last 5 Games"}, Name: name, Slug: slug}

	view, err := p.findPlayer(r.Context(), slug, r.URL.Query().Get("statType"))
	if err != nil {
		p.renderError(w, "last5", &data.page, &data, err, "Failed to fetch last 5 games")
		return
	}
	games, err := p.games.LastNGames(r.Context(), name, confidence.SampleSize)
	if err != nil {
		p.renderError(w, "last5", &data.page, &data, err, "Failed to fetch last 5 games")
		return
	}

	data.Name = view.DisplayName
	data.Stat = view.StatType
	data.Chart = BuildChart(games, view.StatType, view.PropLine, p.cmp)
	p.render(w, "last5", http.StatusOK, data)
}

func (p *Pages) handleGame(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	data := gamePage{page: page{Title: "Game Stats"}, Slug: vars["name"], Stat: r.URL.Query().Get("statType")}

	stats, err := p.games.GameStats(r.Context(), vars["gameID"], vars["name"])
	if err != nil {
		p.renderError(w, "game", &data.page, &data, err, "Failed to fetch game stats")
		return
	}
	data.Box = BuildBoxScore(stats)
	p.render(w, "game", http.StatusOK, data)
}

func (p *Pages) listPlayers(ctx context.Context) ([]domain.PlayerView, error) {
	views, err := p.players.ListPlayers(ctx, "")
	if err != nil {
		return nil, err
	}
	if p.poller != nil {
		p.poller.Apply(views)
	}
	return views, nil
}

// findPlayer resolves a URL slug and stat line to its card. Without a stat
// the player's first card is returned.
func (p *Pages) findPlayer(ctx context.Context, slug, rawStat string) (domain.PlayerView, error) {
	var stat domain.StatType
	if strings.TrimSpace(rawStat) != "" {
		st, ok := domain.ParseStatType(rawStat)
		if !ok {
			return domain.PlayerView{}, apperr.BadRequest("Unknown stat type")
		}
		stat = st
	}

	views, err := p.listPlayers(ctx)
	if err != nil {
		return domain.PlayerView{}, err
	}
	key := domain.NormalizeName(domain.NameFromURL(slug))
	for _, v := range views {
		if v.ID == key && (stat == "" || v.StatType == stat) {
			return v, nil
		}
	}
	return domain.PlayerView{}, apperr.NotFound("Player not found")
}

// renderError shows the failure inline in place of the page content. 5xx
// causes are logged and replaced by fallback.
func (p *Pages) renderError(w http.ResponseWriter, name string, pg *page, data any, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		p.logger.Error().Err(err).Str("page", name).Msg("Dashboard fetch failed")
		pg.Error = fallback
	} else {
		pg.Error = apperr.Message(err, fallback)
	}
	p.render(w, name, status, data)
}

func (p *Pages) render(w http.ResponseWriter, name string, status int, data any) {
	var buf bytes.Buffer
	if err := p.tmpl[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		p.logger.Error().Err(err).Str("page", name).Msg("Template execution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
