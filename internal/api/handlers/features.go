package handlers

import (
	"log/slog"
	"net/http"

	"github.com/eshaffer321/recurscan/internal/api/dto"
	"github.com/eshaffer321/recurscan/internal/application/service"
)

// defaultBatchSource labels runs created over HTTP.
const defaultBatchSource = "api"

// FeaturesHandler handles feature extraction requests.
type FeaturesHandler struct {
	*Base
}

// NewFeaturesHandler creates a new features handler.
func NewFeaturesHandler(svc *service.FeatureService, logger *slog.Logger) *FeaturesHandler {
	return &FeaturesHandler{
		Base: NewBase(svc, logger),
	}
}

// Extract handles POST /api/features - features of one transaction.
func (h *FeaturesHandler) Extract(w http.ResponseWriter, r *http.Request) {
	var req dto.FeatureRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	f := h.service.Extract(req.Transaction, req.History)
	h.WriteJSON(w, http.StatusOK, dto.FeatureResponse{Features: f})
}

// Batch handles POST /api/features/batch - scores every transaction in the
// list against the list and stores the result as a run.
func (h *FeaturesHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	source := req.Source
	if source == "" {
		source = defaultBatchSource
	}

	result, err := h.service.ComputeAll(r.Context(), req.Transactions, source)
	if err != nil {
		h.WriteServiceError(w, r, "feature runs", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, dto.BatchResponse{
		Run:  dto.NewRunResponse(*result.Run),
		Rows: dto.NewFeatureRowResponses(result.Rows),
	})
}
