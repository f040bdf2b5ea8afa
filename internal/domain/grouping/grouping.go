// Package grouping partitions transactions by owner and counterparty.
//
// Buckets keep input order. Callers that need chronological order use
// SortedHistory, which never reorders the shared bucket.
//
// For batches, build an Index once and reuse it for every extraction:
//
//	idx := grouping.NewIndex(all)
//	for _, tx := range all {
//		history := idx.SortedHistory(tx)
//		...
//	}
package grouping

import (
	"sort"

	"github.com/eshaffer321/recurscan/internal/domain/stats"
	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

// Groups maps user ID -> counterparty name -> transactions in input order.
type Groups map[string]map[string][]transaction.Transaction

// Group partitions txs by (UserID, Name).
func Group(txs []transaction.Transaction) Groups {
	groups := make(Groups)
	for _, tx := range txs {
		merchants, ok := groups[tx.UserID]
		if !ok {
			merchants = make(map[string][]transaction.Transaction)
			groups[tx.UserID] = merchants
		}
		merchants[tx.Name] = append(merchants[tx.Name], tx)
	}
	return groups
}

// History returns the bucket tx belongs to, or nil.
func (g Groups) History(tx transaction.Transaction) []transaction.Transaction {
	return g[tx.UserID][tx.Name]
}

// AmountHistogram counts transactions per exact amount.
func AmountHistogram(txs []transaction.Transaction) map[float64]int {
	counts := make(map[float64]int)
	for _, tx := range txs {
		counts[tx.Amount]++
	}
	return counts
}

// SortByDate returns a copy of txs stably ordered by date string.
// Canonical date strings sort chronologically.
func SortByDate(txs []transaction.Transaction) []transaction.Transaction {
	sorted := make([]transaction.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

// Index holds the per-batch derived state shared by every extraction.
type Index struct {
	Groups      Groups
	Amounts     map[float64]int
	AmountStats stats.Stats // over every amount in the batch
	All         []transaction.Transaction
}

// NewIndex groups and histograms all in one pass each.
func NewIndex(all []transaction.Transaction) *Index {
	return &Index{
		Groups:      Group(all),
		Amounts:     AmountHistogram(all),
		AmountStats: stats.Summarize(transaction.Amounts(all)),
		All:         all,
	}
}

// Total is the number of transactions in the batch.
func (i *Index) Total() int {
	return len(i.All)
}

// SortedHistory returns tx's merchant history ordered by date.
func (i *Index) SortedHistory(tx transaction.Transaction) []transaction.Transaction {
	return SortByDate(i.Groups.History(tx))
}
