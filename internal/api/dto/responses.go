package dto

import (
	"time"

	"github.com/eshaffer321/recurscan/internal/domain/features"
	"github.com/eshaffer321/recurscan/internal/infrastructure/storage"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// FeatureResponse carries one transaction's features.
type FeatureResponse struct {
	Features features.Features `json:"features"`
}

// FeatureRowResponse is one row of a run.
type FeatureRowResponse struct {
	TransactionID string            `json:"transaction_id,omitempty"`
	UserID        string            `json:"user_id"`
	Name          string            `json:"name"`
	Features      features.Features `json:"features"`
}

// RunResponse represents a feature run in API responses.
type RunResponse struct {
	ID               string  `json:"id"`
	Source           string  `json:"source"`
	StartedAt        string  `json:"started_at"`
	CompletedAt      *string `json:"completed_at,omitempty"`
	TransactionCount int     `json:"transaction_count"`
	Status           string  `json:"status"`
	ErrorMessage     string  `json:"error_message,omitempty"`
}

// RunListResponse is returned by GET /api/runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// BatchResponse is returned by POST /api/features/batch.
type BatchResponse struct {
	Run  RunResponse          `json:"run"`
	Rows []FeatureRowResponse `json:"rows"`
}

// FeatureRowsResponse is returned by GET /api/runs/{id}/features.
type FeatureRowsResponse struct {
	RunID string               `json:"run_id"`
	Rows  []FeatureRowResponse `json:"rows"`
	Count int                  `json:"count"`
}

// NewRunResponse converts a stored run.
func NewRunResponse(run storage.FeatureRun) RunResponse {
	resp := RunResponse{
		ID:               run.ID,
		Source:           run.Source,
		StartedAt:        run.StartedAt.UTC().Format(time.RFC3339),
		TransactionCount: run.TransactionCount,
		Status:           run.Status,
		ErrorMessage:     run.ErrorMessage,
	}
	if run.CompletedAt != nil {
		completed := run.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}

// NewFeatureRowResponses converts stored rows, never returning nil.
func NewFeatureRowResponses(rows []storage.FeatureRow) []FeatureRowResponse {
	out := make([]FeatureRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FeatureRowResponse(row))
	}
	return out
}
