package storage

import (
	"context"
	"errors"

	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// defaultRunLimit applies when ListRuns is called with limit <= 0.
const defaultRunLimit = 50

// Repository defines the complete storage interface.
// This interface allows swapping implementations and makes testing with
// mocks straightforward.
type Repository interface {
	TransactionRepository
	RunRepository
	FeatureRowRepository
	Close() error
}

// TransactionRepository stores raw transactions for later feature runs.
type TransactionRepository interface {
	// SaveTransactions inserts transactions. A transaction with a non-empty
	// ID replaces the stored one with the same (user, ID).
	SaveTransactions(ctx context.Context, txs []transaction.Transaction) error

	// ListTransactions returns a user's transactions in insertion order.
	// An empty userID lists every user.
	ListTransactions(ctx context.Context, userID string) ([]transaction.Transaction, error)
}

// RunRepository tracks feature runs
type RunRepository interface {
	// StartRun records a running run and returns its ID
	StartRun(ctx context.Context, source string) (string, error)

	// CompleteRun marks a run completed with the number of transactions scored
	CompleteRun(ctx context.Context, runID string, count int) error

	// FailRun marks a run failed
	FailRun(ctx context.Context, runID string, cause error) error

	// GetRun returns ErrNotFound for unknown IDs
	GetRun(ctx context.Context, runID string) (*FeatureRun, error)

	// ListRuns returns the most recent runs first
	ListRuns(ctx context.Context, limit int) ([]FeatureRun, error)
}

// FeatureRowRepository stores the computed feature maps of a run
type FeatureRowRepository interface {
	SaveFeatureRows(ctx context.Context, runID string, rows []FeatureRow) error
	ListFeatureRows(ctx context.Context, runID string) ([]FeatureRow, error)
}
