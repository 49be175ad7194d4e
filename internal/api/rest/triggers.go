package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/moduel/propdash/internal/apperr"
	"github.com/moduel/propdash/internal/pipeline"
	"github.com/moduel/propdash/internal/service"
	"github.com/rs/zerolog/log"
)

// Trigger success messages.
const (
	ScrapeCompletedMessage  = "Scraping completed successfully"
	ProcessCompletedMessage = "Processing completed successfully"
	AnalysisTriggeredMsg    = "Analysis triggered"
	PollFailedMessage       = "Failed to poll UNR league."
)

// PipelineTrigger runs chains and polls the league.
type PipelineTrigger interface {
	Trigger(ctx context.Context, chain string) (*pipeline.RunResult, error)
	PollLeague(ctx context.Context) (*service.LeaguePoll, error)
	Chains() []string
}

// RunStatusProvider reports active and recent pipeline runs.
type RunStatusProvider interface {
	Status() pipeline.StatusSummary
}

// TriggerHandler exposes the ingestion chains over HTTP.
type TriggerHandler struct {
	pipeline PipelineTrigger
	history  RunStatusProvider
}

// NewTriggerHandler wires the REST layer to the pipeline service. history may be nil.
func NewTriggerHandler(p PipelineTrigger, history RunStatusProvider) *TriggerHandler {
	return &TriggerHandler{pipeline: p, history: history}
}

type triggerBody struct {
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Run     *pipeline.RunResult `json:"run,omitempty"`
}

// RunChain returns a handler that runs chain to completion. The chain outlives
// a client disconnect; its steps are bounded by their own timeouts.
func (h *TriggerHandler) RunChain(chain, successMessage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := h.pipeline.Trigger(context.WithoutCancel(r.Context()), chain)
		if err != nil {
			h.respondRunError(w, r, run, err, fmt.Sprintf("Failed to run %s", chain))
			return
		}
		respondJSON(w, http.StatusOK, triggerBody{Message: successMessage, Run: run})
	}
}

// RunNamedChain handles POST /api/pipeline/run/{chain} for any catalog chain.
func (h *TriggerHandler) RunNamedChain(w http.ResponseWriter, r *http.Request) {
	chain := mux.Vars(r)["chain"]
	h.RunChain(chain, fmt.Sprintf("Chain %s completed successfully", chain))(w, r)
}

// PollLeague checks the odds API and runs the full chain when the league is up.
func (h *TriggerHandler) PollLeague(w http.ResponseWriter, r *http.Request) {
	poll, err := h.pipeline.PollLeague(context.WithoutCancel(r.Context()))
	if err != nil {
		if poll != nil && poll.Run != nil {
			h.respondRunError(w, r, poll.Run, err, PollFailedMessage)
			return
		}
		respondError(w, r, err, PollFailedMessage)
		return
	}
	respondJSON(w, http.StatusOK, triggerBody{Message: poll.Message, Run: poll.Run})
}

// Status handles GET /api/pipeline/status
func (h *TriggerHandler) Status(w http.ResponseWriter, r *http.Request) {
	summary := pipeline.StatusSummary{}
	if h.history != nil {
		summary = h.history.Status()
	}
	respondJSON(w, http.StatusOK, buildStatusPayload(summary, h.pipeline.Chains()))
}

// respondRunError answers a failed run with the run attached so callers can
// see which step broke.
func (h *TriggerHandler) respondRunError(w http.ResponseWriter, r *http.Request, run *pipeline.RunResult, err error, fallback string) {
	if run == nil {
		respondError(w, r, err, fallback)
		return
	}
	msg := fallback
	if run.FailedStep != "" {
		msg = fmt.Sprintf("Failed to run %s", run.FailedStep)
	}
	log.Error().
		Err(err).
		Str("request_id", RequestID(r.Context())).
		Str("run_id", run.ID).
		Str("chain", run.Chain).
		Str("failed_step", run.FailedStep).
		Msg("Pipeline run failed")
	respondJSON(w, apperr.HTTPStatus(err), triggerBody{Error: msg, Run: run})
}

func buildStatusPayload(summary pipeline.StatusSummary, chains []string) map[string]any {
	response := map[string]any{
		"status":  "idle",
		"message": "No active runs",
		"chains":  chains,
		"history": []*pipeline.RunResult{},
	}
	if len(summary.Active) > 0 {
		response["status"] = string(pipeline.RunRunning)
		response["message"] = fmt.Sprintf("%d run(s) in progress", len(summary.Active))
		response["active"] = summary.Active
	}
	if summary.Recent != nil {
		response["history"] = summary.Recent
	}
	return response
}
