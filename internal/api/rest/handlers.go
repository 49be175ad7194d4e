package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/domain"
	"github.com/moduel/propdash/internal/service"
	"github.com/rs/zerolog/log"
)

// PlayerLister lists the player cards.
type PlayerLister interface {
	ListPlayers(ctx context.Context, stat domain.StatType) ([]domain.PlayerView, error)
}

// GameReader serves game logs and box scores.
type GameReader interface {
	GameLog(ctx context.Context, playerName string, stat domain.StatType, n int) (*service.GameLog, error)
	GameStats(ctx context.Context, gameID, playerName string) (*domain.GameStats, error)
}

// AnalysisReader serves the latest analysis of a player.
type AnalysisReader interface {
	Status(ctx context.Context, playerName string, stat domain.StatType) (*service.AnalysisStatus, error)
}

// ConfidenceEvaluator scores a player's recent games against their line.
type ConfidenceEvaluator interface {
	Evaluate(ctx context.Context, playerName string, stat domain.StatType) (*service.ConfidenceReport, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains dependencies for the read API handlers
type Handler struct {
	players    PlayerLister
	games      GameReader
	analysis   AnalysisReader
	confidence ConfidenceEvaluator
	store      Pinger
	backend    string
}

// NewHandler creates a new handler
func NewHandler(players PlayerLister, games GameReader, analysis AnalysisReader, conf ConfidenceEvaluator, store Pinger, backend string) *Handler {
	return &Handler{
		players:    players,
		games:      games,
		analysis:   analysis,
		confidence: conf,
		store:      store,
		backend:    backend,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

type resultBody struct {
	Result any `json:"result"`
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "propdash",
	})
}

// HealthCheckDB pings the configured store.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		log.Error().Err(err).Str("backend", h.backend).Msg("Store health check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"backend": h.backend,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"backend": h.backend,
	})
}

// GetPlayers returns every player card, optionally restricted to one stat type.
func (h *Handler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	var stat domain.StatType
	if raw := r.URL.Query().Get("statType"); raw != "" {
		parsed, ok := domain.ParseStatType(raw)
		if !ok {
			respondError(w, r, apperr.BadRequest("Unknown statType"), "Failed to fetch players")
			return
		}
		stat = parsed
	}

	views, err := h.players.ListPlayers(r.Context(), stat)
	if err != nil {
		respondError(w, r, err, "Failed to fetch players")
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// GetLastGames returns the player's recent games oldest first.
func (h *Handler) GetLastGames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := domain.NameFromURL(q.Get("playerName"))
	if name == "" {
		respondError(w, r, apperr.BadRequest("Missing playerName"), "")
		return
	}
	stat, ok := domain.ParseStatType(q.Get("statType"))
	if !ok {
		respondError(w, r, apperr.BadRequest("Unknown statType"), "")
		return
	}

	n := service.MaxRecentGames
	if raw := q.Get("n"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			n = v
		}
	}

	gameLog, err := h.games.GameLog(r.Context(), name, stat, n)
	if err != nil {
		respondError(w, r, err, "Failed to fetch last 5 games")
		return
	}
	respondJSON(w, http.StatusOK, gameLog)
}

// GetGameStats returns one player's box score for one game.
func (h *Handler) GetGameStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stats, err := h.games.GameStats(r.Context(), q.Get("gameId"), q.Get("playerName"))
	if err != nil {
		respondError(w, r, err, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetAnalysisStatus returns the latest analysis of a player.
func (h *Handler) GetAnalysisStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stat, err := service.ParseAnalysisStat(q.Get("statType"))
	if err != nil {
		respondError(w, r, err, "")
		return
	}

	status, err := h.analysis.Status(r.Context(), q.Get("playerName"), stat)
	if err != nil {
		respondError(w, r, err, "Failed to fetch analysis")
		return
	}
	respondJSON(w, http.StatusOK, resultBody{Result: status})
}

// GetConfidence scores the player's last five games against their line.
func (h *Handler) GetConfidence(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := domain.NameFromURL(q.Get("playerName"))
	if name == "" {
		respondError(w, r, apperr.BadRequest("Missing playerName"), "")
		return
	}
	stat, ok := domain.ParseStatType(q.Get("statType"))
	if !ok {
		respondError(w, r, apperr.BadRequest("Unknown statType"), "")
		return
	}

	report, err := h.confidence.Evaluate(r.Context(), name, stat)
	if err != nil {
		respondError(w, r, err, "Failed to compute confidence")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError maps err onto its status. Client errors carry their own
// message; server errors are logged and answered with fallback.
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := apperr.HTTPStatus(err)
	msg := apperr.Message(err, fallback)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", RequestID(r.Context())).
			Str("path", r.URL.Path).
			Str("kind", apperr.KindOf(err).String()).
			Msg("Request failed")
		msg = fallback
	}
	respondJSON(w, status, errorBody{Error: msg})
}
