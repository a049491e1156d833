package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/lifecycle"
)

type operationFunc func(ctx context.Context, routerID string) (*lifecycle.Report, error)

func (h *Handler) runOperation(w http.ResponseWriter, r *http.Request, op operationFunc) {
	report, err := op(r.Context(), chi.URLParam(r, "routerId"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, OperationResponse{Report: report, Partial: report.Partial()})
}

// StartRouter brings the router up.
// POST /api/v1/routers/{routerId}/up
func (h *Handler) StartRouter(w http.ResponseWriter, r *http.Request) {
	h.runOperation(w, r, h.lifecycle.Start)
}

// StopRouter brings the router down.
// POST /api/v1/routers/{routerId}/down
func (h *Handler) StopRouter(w http.ResponseWriter, r *http.Request) {
	h.runOperation(w, r, h.lifecycle.Stop)
}

// RestartRouter restarts the router from its current records.
// POST /api/v1/routers/{routerId}/restart
func (h *Handler) RestartRouter(w http.ResponseWriter, r *http.Request) {
	h.runOperation(w, r, h.lifecycle.Restart)
}

// GetRouterStatus returns the router status.
// GET /api/v1/routers/{routerId}/status
func (h *Handler) GetRouterStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.lifecycle.Status(r.Context(), chi.URLParam(r, "routerId"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, status)
}

// GetHistory returns journaled lifecycle operations, newest first.
// GET /api/v1/history?router=<id>&limit=<n>
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		WriteDomainError(w, errors.NewStateError("journal is disabled", nil))
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteInvalidRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.history.History(r.Context(), r.URL.Query().Get("router"), limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, entries)
}
