package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

func netflix() []transaction.Transaction {
	return []transaction.Transaction{
		{ID: "t3", UserID: "1", Name: "Netflix", Amount: 16.77, Date: "2025-03-01"},
		{ID: "t1", UserID: "1", Name: "Netflix", Amount: 16.77, Date: "2025-01-01"},
		{ID: "t2", UserID: "1", Name: "Netflix", Amount: 16.77, Date: "2025-02-01"},
	}
}

func TestGroup_KeepsInputOrder(t *testing.T) {
	txs := append(netflix(),
		transaction.Transaction{ID: "s1", UserID: "1", Name: "Spotify", Amount: 9.99, Date: "2025-01-05"},
		transaction.Transaction{ID: "o1", UserID: "2", Name: "Netflix", Amount: 16.77, Date: "2025-01-01"},
	)

	groups := Group(txs)

	require.Len(t, groups["1"]["Netflix"], 3)
	assert.Equal(t, "t3", groups["1"]["Netflix"][0].ID)
	assert.Len(t, groups["1"]["Spotify"], 1)
	assert.Len(t, groups["2"]["Netflix"], 1)
	assert.Equal(t, 16.77, groups["1"]["Netflix"][0].Amount)
}

func TestGroups_History_Missing(t *testing.T) {
	groups := Group(netflix())
	assert.Nil(t, groups.History(transaction.Transaction{UserID: "9", Name: "Netflix"}))
	assert.Nil(t, groups.History(transaction.Transaction{UserID: "1", Name: "Hulu"}))
}

func TestAmountHistogram(t *testing.T) {
	txs := append(netflix(), transaction.Transaction{Amount: 5})

	counts := AmountHistogram(txs)

	assert.Equal(t, 3, counts[16.77])
	assert.Equal(t, 1, counts[5])
	assert.Equal(t, 0, counts[1])
}

func TestIndex_SortedHistory_DoesNotMutateBucket(t *testing.T) {
	idx := NewIndex(netflix())

	sorted := idx.SortedHistory(netflix()[0])

	require.Len(t, sorted, 3)
	assert.Equal(t, []string{"t1", "t2", "t3"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, "t3", idx.Groups["1"]["Netflix"][0].ID)
	assert.Equal(t, 3, idx.Total())
}

func TestNewIndex_AmountStats(t *testing.T) {
	txs := append(netflix(), transaction.Transaction{UserID: "2", Name: "Rent", Amount: -1500})

	idx := NewIndex(txs)

	assert.InDelta(t, (16.77*3-1500)/4, idx.AmountStats.Mean, 1e-9)
	assert.Greater(t, idx.AmountStats.Std, 0.0)
	assert.Equal(t, 4, idx.Total())
}
