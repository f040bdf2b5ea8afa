package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/recurscan/internal/domain/features"
	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It is safe for concurrent use.
type MockRepository struct {
	mu           sync.Mutex
	transactions []transaction.Transaction
	runs         map[string]*FeatureRun
	runOrder     []string
	rows         map[string][]FeatureRow

	// Hooks for test assertions
	StartRunCalled       bool
	CompleteRunCalled    bool
	FailRunCalled        bool
	SaveFeatureRowsCalls int

	// Error injection for testing error paths
	SaveTransactionsErr error
	ListTransactionsErr error
	StartRunErr         error
	CompleteRunErr      error
	SaveFeatureRowsErr  error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs: make(map[string]*FeatureRun),
		rows: make(map[string][]FeatureRow),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SaveTransactions appends txs, replacing any with the same (user, ID).
func (m *MockRepository) SaveTransactions(_ context.Context, txs []transaction.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveTransactionsErr != nil {
		return m.SaveTransactionsErr
	}

outer:
	for _, tx := range txs {
		if tx.ID != "" {
			for i, existing := range m.transactions {
				if existing.UserID == tx.UserID && existing.ID == tx.ID {
					m.transactions[i] = tx
					continue outer
				}
			}
		}
		m.transactions = append(m.transactions, tx)
	}
	return nil
}

// ListTransactions filters stored transactions by user ("" = all)
func (m *MockRepository) ListTransactions(_ context.Context, userID string) ([]transaction.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListTransactionsErr != nil {
		return nil, m.ListTransactionsErr
	}

	var out []transaction.Transaction
	for _, tx := range m.transactions {
		if userID == "" || tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

// StartRun creates a running run
func (m *MockRepository) StartRun(_ context.Context, source string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartRunCalled = true
	if m.StartRunErr != nil {
		return "", m.StartRunErr
	}

	id := uuid.NewString()
	m.runs[id] = &FeatureRun{
		ID:        id,
		Source:    source,
		StartedAt: time.Now().UTC(),
		Status:    RunStatusRunning,
	}
	m.runOrder = append(m.runOrder, id)
	return id, nil
}

// CompleteRun marks the run completed
func (m *MockRepository) CompleteRun(_ context.Context, runID string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteRunCalled = true
	if m.CompleteRunErr != nil {
		return m.CompleteRunErr
	}
	return m.finish(runID, RunStatusCompleted, count, "")
}

// FailRun marks the run failed
func (m *MockRepository) FailRun(_ context.Context, runID string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FailRunCalled = true
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return m.finish(runID, RunStatusFailed, 0, msg)
}

func (m *MockRepository) finish(runID, status string, count int, msg string) error {
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Status = status
	run.TransactionCount = count
	run.ErrorMessage = msg
	return nil
}

// GetRun returns a copy of the run
func (m *MockRepository) GetRun(_ context.Context, runID string) (*FeatureRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	copied := *run
	return &copied, nil
}

// ListRuns returns runs newest first
func (m *MockRepository) ListRuns(_ context.Context, limit int) ([]FeatureRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = defaultRunLimit
	}

	runs := make([]FeatureRun, 0, len(m.runOrder))
	for i := len(m.runOrder) - 1; i >= 0; i-- {
		runs = append(runs, *m.runs[m.runOrder[i]])
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })

	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// SaveFeatureRows appends rows to the run
func (m *MockRepository) SaveFeatureRows(_ context.Context, runID string, rows []FeatureRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveFeatureRowsCalls++
	if m.SaveFeatureRowsErr != nil {
		return m.SaveFeatureRowsErr
	}
	if _, ok := m.runs[runID]; !ok {
		return fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}

	for _, row := range rows {
		copied := row
		copied.Features = make(features.Features, len(row.Features))
		for k, v := range row.Features {
			copied.Features[k] = v
		}
		m.rows[runID] = append(m.rows[runID], copied)
	}
	return nil
}

// ListFeatureRows returns the rows saved for the run
func (m *MockRepository) ListFeatureRows(_ context.Context, runID string) ([]FeatureRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]FeatureRow(nil), m.rows[runID]...), nil
}
