package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/recurscan/internal/domain/features"
	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

func createTempDB(t *testing.T) string {
	tmpFile, err := os.CreateTemp("", "test_*.db")
	require.NoError(t, err)
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })
	return tmpFile.Name()
}

func newTestStorage(t *testing.T) *Storage {
	store, err := NewStorage(createTempDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMigrations_FreshDatabase(t *testing.T) {
	store := newTestStorage(t)

	for _, table := range []string{"transactions", "feature_runs", "feature_rows"} {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}

	// goose records a version 0 entry plus one per migration
	var count int
	err := store.db.QueryRow("SELECT COUNT(*) FROM goose_db_version WHERE is_applied = 1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMigrations_Idempotency(t *testing.T) {
	path := createTempDB(t)

	first, err := NewStorage(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStorage(path)
	require.NoError(t, err)
	defer second.Close()

	var count int
	err = second.db.QueryRow("SELECT COUNT(*) FROM goose_db_version WHERE is_applied = 1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStorage_Transactions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txs := []transaction.Transaction{
		{ID: "t1", UserID: "u1", Name: "Netflix", Amount: -15.99, Date: "2024-01-15"},
		{ID: "t2", UserID: "u2", Name: "Spotify", Amount: -9.99, Date: "2024-01-20"},
		{UserID: "u1", Name: "Coffee", Amount: -4.5, Date: "2024-01-21"},
		{UserID: "u1", Name: "Coffee", Amount: -4.5, Date: "2024-01-21"},
	}
	require.NoError(t, store.SaveTransactions(ctx, txs))

	all, err := store.ListTransactions(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, txs, all)

	u1, err := store.ListTransactions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, u1, 3)
	assert.Equal(t, "Netflix", u1[0].Name)

	t.Run("same id replaces in place", func(t *testing.T) {
		updated := transaction.Transaction{ID: "t1", UserID: "u1", Name: "Netflix", Amount: -17.99, Date: "2024-01-15"}
		require.NoError(t, store.SaveTransactions(ctx, []transaction.Transaction{updated}))

		u1, err := store.ListTransactions(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, u1, 3)
		assert.Equal(t, updated, u1[0])
	})

	t.Run("unknown user", func(t *testing.T) {
		none, err := store.ListTransactions(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestStorage_RunLifecycle(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	runID, err := store.StartRun(ctx, "cli")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	run, err := store.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, "cli", run.Source)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Nil(t, run.CompletedAt)
	assert.False(t, run.StartedAt.IsZero())

	require.NoError(t, store.CompleteRun(ctx, runID, 12))

	run, err = store.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, 12, run.TransactionCount)
	require.NotNil(t, run.CompletedAt)

	failedID, err := store.StartRun(ctx, "api")
	require.NoError(t, err)
	require.NoError(t, store.FailRun(ctx, failedID, errors.New("boom")))

	failed, err := store.GetRun(ctx, failedID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, failed.Status)
	assert.Equal(t, "boom", failed.ErrorMessage)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, failedID, runs[0].ID, "newest first")

	runs, err = store.ListRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStorage_UnknownRun(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.CompleteRun(ctx, "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_FeatureRows(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	runID, err := store.StartRun(ctx, "test")
	require.NoError(t, err)

	first := []FeatureRow{
		{TransactionID: "t1", UserID: "u1", Name: "Netflix", Features: features.Features{
			features.NTransactionsSameAmount:  3,
			features.IsInsurance:              false,
			features.IntervalConsistencyScore: 1.0,
		}},
		{TransactionID: "t2", UserID: "u1", Name: "Dave", Features: features.Features{
			features.NTransactionsSameAmount: 4,
		}},
	}
	require.NoError(t, store.SaveFeatureRows(ctx, runID, first))
	require.NoError(t, store.SaveFeatureRows(ctx, runID, []FeatureRow{
		{UserID: "u2", Name: "Gym", Features: features.Features{features.NTransactionsSameAmount: 1}},
	}))

	rows, err := store.ListFeatureRows(ctx, runID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Netflix", rows[0].Name)
	assert.Equal(t, "Dave", rows[1].Name)
	assert.Equal(t, "Gym", rows[2].Name)

	// JSON round-trip turns integers into float64
	assert.Equal(t, 3.0, rows[0].Features[features.NTransactionsSameAmount])
	assert.Equal(t, false, rows[0].Features[features.IsInsurance])
	assert.Equal(t, 1.0, rows[0].Features.Float(features.IntervalConsistencyScore))

	t.Run("unknown run has no rows", func(t *testing.T) {
		rows, err := store.ListFeatureRows(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("rows require an existing run", func(t *testing.T) {
		err := store.SaveFeatureRows(ctx, "missing", first)
		assert.Error(t, err)
	})
}
