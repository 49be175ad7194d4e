package pipeline

import (
	"sync"
)

// StatusSummary is returned to API callers.
type StatusSummary struct {
	Active []*RunResult `json:"active_runs"`
	Recent []*RunResult `json:"recent_runs"`
}

// History is a Reporter that remembers active runs and the most recent
// finished ones.
type History struct {
	mu     sync.Mutex
	limit  int
	active map[string]*RunResult
	order  []string
	recent []*RunResult
}

// NewHistory keeps up to limit finished runs, newest first.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 10
	}
	return &History{limit: limit, active: make(map[string]*RunResult)}
}

func (h *History) OnRunStart(run *RunResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active[run.ID] = run.Clone()
	h.order = append(h.order, run.ID)
}

func (h *History) OnStepStart(*RunResult, string, int, int) {}

func (h *History) OnStepComplete(run *RunResult, _ StepResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.active[run.ID]; ok {
		h.active[run.ID] = run.Clone()
	}
}

func (h *History) OnRunComplete(run *RunResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.active, run.ID)
	for i, id := range h.order {
		if id == run.ID {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}

	h.recent = append([]*RunResult{run.Clone()}, h.recent...)
	if len(h.recent) > h.limit {
		h.recent = h.recent[:h.limit]
	}
}

// Status returns copies of the active and recent runs.
func (h *History) Status() StatusSummary {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := StatusSummary{
		Active: make([]*RunResult, 0, len(h.order)),
		Recent: make([]*RunResult, 0, len(h.recent)),
	}
	for _, id := range h.order {
		out.Active = append(out.Active, h.active[id].Clone())
	}
	for _, r := range h.recent {
		out.Recent = append(out.Recent, r.Clone())
	}
	return out
}
