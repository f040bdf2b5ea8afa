package storage

import (
	"time"

	"github.com/eshaffer321/recurscan/internal/domain/features"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// FeatureRun is one batch feature computation.
type FeatureRun struct {
	ID               string     `json:"id"`
	Source           string     `json:"source"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	TransactionCount int        `json:"transaction_count"`
	Status           string     `json:"status"`
	ErrorMessage     string     `json:"error_message,omitempty"`
}

// FeatureRow is the feature map computed for one transaction of a run.
// Rows keep the order of the run's input.
type FeatureRow struct {
	TransactionID string            `json:"transaction_id,omitempty"`
	UserID        string            `json:"user_id"`
	Name          string            `json:"name"`
	Features      features.Features `json:"features"`
}
