// Package service orchestrates feature runs over stored or supplied
// transactions.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eshaffer321/recurscan/internal/domain/features"
	"github.com/eshaffer321/recurscan/internal/domain/grouping"
	"github.com/eshaffer321/recurscan/internal/domain/transaction"
	"github.com/eshaffer321/recurscan/internal/infrastructure/storage"
)

// DefaultWorkers bounds concurrent extraction when no worker count is set.
const DefaultWorkers = 4

// ErrNoStorage is returned by operations that persist when the service was
// built without a repository.
var ErrNoStorage = errors.New("no storage configured")

// RunResult is a persisted feature run and its rows in input order.
type RunResult struct {
	Run  *storage.FeatureRun
	Rows []storage.FeatureRow
}

// FeatureService computes recurrence features and records runs.
type FeatureService struct {
	extractor *features.Extractor
	storage   storage.Repository
	workers   int
	logger    *slog.Logger
}

// NewFeatureService creates a service. store may be nil for compute-only
// use; workers <= 0 uses DefaultWorkers.
func NewFeatureService(
	extractor *features.Extractor,
	store storage.Repository,
	workers int,
	logger *slog.Logger,
) *FeatureService {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &FeatureService{
		extractor: extractor,
		storage:   store,
		workers:   workers,
		logger:    logger,
	}
}

// Extract computes the features of one transaction against its context.
// tx is added to history when history does not already hold it.
func (s *FeatureService) Extract(tx transaction.Transaction, history []transaction.Transaction) features.Features {
	for _, h := range history {
		if h == tx {
			return s.extractor.Extract(tx, history)
		}
	}

	all := make([]transaction.Transaction, 0, len(history)+1)
	all = append(all, history...)
	all = append(all, tx)
	return s.extractor.Extract(tx, all)
}

// Compute extracts features for every transaction in txs against txs,
// without persisting anything. Rows keep the input order.
func (s *FeatureService) Compute(ctx context.Context, txs []transaction.Transaction) ([]storage.FeatureRow, error) {
	idx := grouping.NewIndex(txs)
	rows := make([]storage.FeatureRow, len(txs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, tx := range txs {
		i, tx := i, tx
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = storage.FeatureRow{
				TransactionID: tx.ID,
				UserID:        tx.UserID,
				Name:          tx.Name,
				Features:      s.extractor.ExtractIndexed(tx, idx),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ComputeAll runs Compute inside a recorded feature run and stores the rows.
// A failure after the run starts marks the run failed.
func (s *FeatureService) ComputeAll(ctx context.Context, txs []transaction.Transaction, source string) (*RunResult, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}

	start := time.Now()
	runID, err := s.storage.StartRun(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	logger := s.logger.With("run_id", runID, "source", source)
	logger.Info("feature run started", "transactions", len(txs), "workers", s.workers)

	rows, err := s.compute(ctx, runID, txs)
	if err != nil {
		if failErr := s.storage.FailRun(context.WithoutCancel(ctx), runID, err); failErr != nil {
			logger.Error("failed to mark run failed", "error", failErr)
		}
		logger.Error("feature run failed", "error", err)
		return nil, err
	}

	run, err := s.storage.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	logger.Info("feature run completed",
		"transactions", len(rows),
		"duration_ms", time.Since(start).Milliseconds())

	return &RunResult{Run: run, Rows: rows}, nil
}

func (s *FeatureService) compute(ctx context.Context, runID string, txs []transaction.Transaction) ([]storage.FeatureRow, error) {
	rows, err := s.Compute(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("failed to compute features: %w", err)
	}
	if err := s.storage.SaveFeatureRows(ctx, runID, rows); err != nil {
		return nil, fmt.Errorf("failed to save feature rows: %w", err)
	}
	if err := s.storage.CompleteRun(ctx, runID, len(rows)); err != nil {
		return nil, fmt.Errorf("failed to complete run: %w", err)
	}
	return rows, nil
}

// ComputeForUser loads a user's stored transactions ("" = every user) and
// runs ComputeAll over them.
func (s *FeatureService) ComputeForUser(ctx context.Context, userID string) (*RunResult, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}

	txs, err := s.storage.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	source := "user:" + userID
	if userID == "" {
		source = "all"
	}
	return s.ComputeAll(ctx, txs, source)
}

// Import stores transactions for later runs.
func (s *FeatureService) Import(ctx context.Context, txs []transaction.Transaction) error {
	if s.storage == nil {
		return ErrNoStorage
	}
	if err := s.storage.SaveTransactions(ctx, txs); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	s.logger.Info("transactions imported", "count", len(txs))
	return nil
}

// Runs lists recent runs, newest first.
func (s *FeatureService) Runs(ctx context.Context, limit int) ([]storage.FeatureRun, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}
	return s.storage.ListRuns(ctx, limit)
}

// Run returns one run; storage.ErrNotFound for unknown IDs.
func (s *FeatureService) Run(ctx context.Context, runID string) (*storage.FeatureRun, error) {
	if s.storage == nil {
		return nil, ErrNoStorage
	}
	return s.storage.GetRun(ctx, runID)
}

// RunRows returns a run's stored feature rows.
func (s *FeatureService) RunRows(ctx context.Context, runID string) ([]storage.FeatureRow, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}
	return s.storage.ListFeatureRows(ctx, runID)
}
