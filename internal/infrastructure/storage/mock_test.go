package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/recurscan/internal/domain/features"
	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

func TestMockRepository_MatchesStorageSemantics(t *testing.T) {
	repo := NewMockRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveTransactions(ctx, []transaction.Transaction{
		{ID: "t1", UserID: "u1", Name: "Netflix", Amount: -15.99, Date: "2024-01-15"},
		{ID: "t1", UserID: "u2", Name: "Netflix", Amount: -15.99, Date: "2024-01-15"},
	}))
	require.NoError(t, repo.SaveTransactions(ctx, []transaction.Transaction{
		{ID: "t1", UserID: "u1", Name: "Netflix", Amount: -17.99, Date: "2024-01-15"},
	}))

	all, err := repo.ListTransactions(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, -17.99, all[0].Amount)

	runID, err := repo.StartRun(ctx, "test")
	require.NoError(t, err)

	row := FeatureRow{UserID: "u1", Name: "Netflix", Features: features.Features{features.IsPhone: false}}
	require.NoError(t, repo.SaveFeatureRows(ctx, runID, []FeatureRow{row}))
	row.Features[features.IsPhone] = true // caller mutation must not leak in

	rows, err := repo.ListFeatureRows(ctx, runID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, false, rows[0].Features[features.IsPhone])

	require.NoError(t, repo.CompleteRun(ctx, runID, 1))
	run, err := repo.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, run.Status)

	_, err = repo.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockRepository_ErrorInjection(t *testing.T) {
	repo := NewMockRepository()
	repo.StartRunErr = errors.New("db down")

	_, err := repo.StartRun(context.Background(), "test")
	assert.EqualError(t, err, "db down")
	assert.True(t, repo.StartRunCalled)
}
