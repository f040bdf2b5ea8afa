package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/recurscan/internal/api/dto"
	"github.com/eshaffer321/recurscan/internal/application/service"
)

// RunsHandler handles feature run HTTP requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(svc *service.FeatureService, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(svc, logger),
	}
}

// List handles GET /api/runs - returns recent feature runs.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.service.Runs(r.Context(), limit)
	if err != nil {
		h.WriteServiceError(w, r, "runs", err)
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, dto.NewRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single run.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	run, err := h.service.Run(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, "run", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.NewRunResponse(*run))
}

// Features handles GET /api/runs/{id}/features - returns a run's rows.
func (h *RunsHandler) Features(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	rows, err := h.service.RunRows(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, r, "run", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.FeatureRowsResponse{
		RunID: id,
		Rows:  dto.NewFeatureRowResponses(rows),
		Count: len(rows),
	})
}
