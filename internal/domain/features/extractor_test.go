package features

import (
	"bytes"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

func tx(id, user, name string, amount float64, date string) transaction.Transaction {
	return transaction.Transaction{ID: id, UserID: user, Name: name, Amount: amount, Date: date}
}

func netflixHistory() []transaction.Transaction {
	return []transaction.Transaction{
		tx("n1", "user1", "Netflix", 16.77, "2025-01-01"),
		tx("n2", "user1", "Netflix", 16.77, "2025-02-01"),
		tx("n3", "user1", "Netflix", 16.77, "2025-03-01"),
	}
}

func daveHistory() []transaction.Transaction {
	return []transaction.Transaction{
		tx("d1", "user1", "Dave", 55.0, "2025-01-01"),
		tx("d2", "user1", "Dave", 55.0, "2025-01-15"),
		tx("d3", "user1", "Dave", 55.0, "2025-02-12"),
	}
}

func newExtractor() *Extractor {
	return NewExtractor(DefaultConfig(), nil)
}

func sortedKeys(f Features) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestExtract_MonthlySubscription(t *testing.T) {
	// Arrange
	all := append(netflixHistory(), daveHistory()...)
	e := newExtractor()

	// Act
	f := e.Extract(all[0], all)

	// Assert
	assert.InDelta(t, 1.0, f[IsMonthlyRecurring], 1e-9)
	assert.InDelta(t, 30.0, f[MerchantIntervalMean], 1.0)
	assert.InDelta(t, 1.5, f[MerchantIntervalStd], 1e-9)
	assert.Equal(t, true, f[IsKnownRecurringVendor])
	assert.Equal(t, false, f[IsKnownNonRecurringVendor])
	assert.Equal(t, true, f[IsAlwaysRecurring])
	assert.Equal(t, 3, f[NTransactionsSameAmount])
	assert.InDelta(t, 0.5, f[PercentTransactionsSameAmount], 1e-9)
	assert.InDelta(t, 0.5, f[IdenticalTransactionRatio], 1e-9)
	assert.InDelta(t, 1-0.5/3, f[IsNearPeriodicInterval], 1e-9)
	assert.InDelta(t, 0.5217, f[RecurrenceLikelihood], 1e-4)
	assert.Equal(t, 1.0, f[AmountConsistencyScore])
	assert.Equal(t, 1.0, f[IntervalConsistencyScore])
	assert.InDelta(t, 1.0, f[CombinedRecurrenceScore], 1e-9)
	assert.Equal(t, 3, f[SameAmountCount])
	assert.Equal(t, true, f[SameAmountSpecificIntervals])
	assert.Equal(t, 1.0, f[MonthlyWithMissingEntries])
	assert.Equal(t, 1, f[LowAmountVariation])
	assert.Equal(t, 0, f[IsSingleTransaction])
	assert.Equal(t, 1, f[IsDeposit])
	assert.Equal(t, 1, f[MerchantAmountFrequency])
	assert.InDelta(t, 16.77, f[RollingAmountMean], 1e-9)
	assert.Equal(t, 3, f[NTransactionsSameDay0Off])
	assert.InDelta(t, 29.5/365, f[TimeSinceLastSameMerchant], 1e-9)

	// 2025-01-01 is a Wednesday
	assert.Equal(t, 2, f[DayOfWeek])
	assert.Equal(t, 1, f[TransactionMonth])
}

func TestExtract_IrregularUnknownVendor(t *testing.T) {
	all := append(netflixHistory(), daveHistory()...)
	e := newExtractor()

	f := e.Extract(all[3], all)

	assert.Less(t, f.Float(IsMonthlyRecurring), 0.8)
	assert.Less(t, f.Float(DayConsistencyScore), 0.6)
	assert.Equal(t, false, f[IsKnownRecurringVendor])
	assert.Equal(t, false, f[IsKnownNonRecurringVendor])
	assert.InDelta(t, 0.2533, f[NonRecurringIrregularity], 1e-4)
	assert.InDelta(t, 0.2302, f[TransactionPatternComplexity], 1e-4)
	assert.InDelta(t, 0.4977, f[DateIrregularityDominance], 1e-4)
	assert.Equal(t, 2, f[NTransactions14DaysApart0Off])
	assert.Equal(t, 2, f[NTransactions7DaysApart0Off])
}

func TestExtract_SingleTransaction(t *testing.T) {
	only := tx("s1", "user1", "Corner Bakery", 12.5, "2025-01-01")

	t.Run("neutral defaults", func(t *testing.T) {
		f := newExtractor().Extract(only, []transaction.Transaction{only})

		assert.Equal(t, 1, f[IsSingleTransaction])
		assert.Equal(t, 1.0, f[IntervalVariability])
		assert.Equal(t, 0.5, f[DayConsistencyScore])
		assert.InDelta(t, 0.2, f[RecurrenceLikelihood], 1e-12)
		assert.Equal(t, 30.0, f[MerchantIntervalStd])
		assert.Equal(t, 60.0, f[MerchantIntervalMean])
		assert.Equal(t, 0.0, f[IsMonthlyRecurring])
		assert.Equal(t, 0.0, f[TimeSinceLastSameMerchant])
		assert.Equal(t, 0.0, f[IntervalClusterScore])
		assert.Equal(t, 0.5, f[DateIrregularityDominance])
		assert.Equal(t, 0.0, f[AmountConsistencyScore])
		assert.Equal(t, 0.0, f[MerchantAmountStd])
	})

	t.Run("as-of anchors time since last", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.AsOf = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

		f := NewExtractor(cfg, nil).Extract(only, []transaction.Transaction{only})

		assert.InDelta(t, 364.0/365, f[TimeSinceLastSameMerchant], 1e-12)
	})
}

func TestExtract_EndsIn99(t *testing.T) {
	tests := []struct {
		amount float64
		want   bool
	}{
		{19.99, true},
		{20.00, false},
		{9.990000000000001, true},
	}

	e := newExtractor()
	for _, tt := range tests {
		subject := tx("e", "user1", "Store", tt.amount, "2025-01-01")
		f := e.Extract(subject, []transaction.Transaction{subject})
		assert.Equal(t, tt.want, f[EndsIn99], "amount %v", tt.amount)
	}
}

func TestExtract_AlbertFee(t *testing.T) {
	e := newExtractor()

	fee := tx("a1", "user1", "ALBERT", 1.99, "2025-01-01")
	f := e.Extract(fee, []transaction.Transaction{fee})
	assert.Equal(t, true, f[IsAlbert99Recurring])

	notFee := tx("a2", "user1", "ALBERT", 1.50, "2025-01-01")
	f = e.Extract(notFee, []transaction.Transaction{notFee})
	assert.Equal(t, false, f[IsAlbert99Recurring])
}

func TestExtract_StableKeySet(t *testing.T) {
	want := Names()
	sort.Strings(want)

	malformed := []transaction.Transaction{
		tx("m1", "user1", "Gym", 20, "2025-01-01"),
		tx("m2", "user1", "Gym", 20, "not a date"),
		tx("m3", "user1", "Gym", 20, ""),
		tx("m4", "user1", "Gym", 0, "2025/02/01"),
	}

	cases := map[string]struct {
		subject transaction.Transaction
		all     []transaction.Transaction
	}{
		"subscription":        {netflixHistory()[0], netflixHistory()},
		"single":              {daveHistory()[0], daveHistory()[:1]},
		"malformed dates":     {malformed[1], malformed},
		"subject not in list": {tx("x", "user9", "Nobody", -3, "2025-01-01"), netflixHistory()},
		"empty list":          {tx("x", "", "", 0, ""), nil},
	}

	e := newExtractor()
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			f := e.Extract(c.subject, c.all)
			assert.Equal(t, want, sortedKeys(f))
			assert.Len(t, f.Vector(), len(want))
		})
	}
}

func TestExtract_MalformedDatesAreExcluded(t *testing.T) {
	all := []transaction.Transaction{
		tx("g1", "user1", "Gym", 20, "2025-01-05"),
		tx("g2", "user1", "Gym", 20, "2025-02-05"),
		tx("g3", "user1", "Gym", 20, "garbage"),
		tx("g4", "user1", "Gym", 20, "2025-03-05"),
	}

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	f := NewExtractor(DefaultConfig(), logger).Extract(all[0], all)

	assert.Equal(t, 1.0, f[IsMonthlyRecurring])
	assert.InDelta(t, (31.0+28.0)/2, f[MerchantIntervalMean], 1e-9)
	assert.Equal(t, 3, f[NTransactionsSameDay0Off])
	assert.InDelta(t, 3.0/4, f[PctTransactionsSameDay0Off], 1e-12)
	assert.Contains(t, buf.String(), "excluded malformed dates")

	f = NewExtractor(DefaultConfig(), nil).Extract(all[2], all)
	assert.Equal(t, 0, f[DayOfWeek])
	assert.Equal(t, 0, f[TransactionMonth])
	assert.Equal(t, 0, f[NTransactions7DaysApart1Off])
	assert.Equal(t, 0, f[NTransactionsSameDay0Off])
}

func TestExtract_SlashedDatesOnlyFeedClustering(t *testing.T) {
	all := []transaction.Transaction{
		tx("p1", "user1", "Phone Co", 40, "2025/01/10"),
		tx("p2", "user1", "Phone Co", 40, "2025/02/10"),
		tx("p3", "user1", "Phone Co", 40, "2025/03/10"),
		tx("p4", "user1", "Phone Co", 40, "2025/04/10"),
	}

	f := newExtractor().Extract(all[0], all)

	assert.Equal(t, 1.0, f[IntervalConsistencyScore])
	assert.Equal(t, true, f[SameAmountSpecificIntervals])
	assert.Greater(t, f.Float(IntervalClusterScore), 0.0)
	// canonical-only scorers see no dates at all
	assert.Equal(t, 60.0, f[MerchantIntervalMean])
	assert.Equal(t, 0.0, f[IsMonthlyRecurring])
}

func TestExtractBatch_MatchesExtract(t *testing.T) {
	all := append(netflixHistory(), daveHistory()...)
	all = append(all, tx("o1", "user2", "Netflix", 16.77, "2025-01-03"))
	e := newExtractor()

	batch := e.ExtractBatch(all)

	require.Len(t, batch, len(all))
	for i, subject := range all {
		assert.Equal(t, e.Extract(subject, all), batch[i], "transaction %s", subject.ID)
	}
	assert.Equal(t, 1, batch[len(all)-1][IsSingleTransaction])
}

func TestNames(t *testing.T) {
	got := Names()

	seen := make(map[string]bool, len(got))
	for _, n := range got {
		assert.False(t, seen[n], "duplicate key %s", n)
		seen[n] = true
	}
	assert.Len(t, got, 53)

	got[0] = "mutated"
	assert.Equal(t, NTransactionsSameAmount, Names()[0])
}

func TestFeatures_Vector(t *testing.T) {
	f := Features{
		NTransactionsSameAmount: 3,
		EndsIn99:                true,
		IsInsurance:             false,
		RecurrenceLikelihood:    0.25,
	}

	v := f.Vector()

	require.Len(t, v, len(Names()))
	assert.Equal(t, 3.0, v[0])
	assert.Equal(t, 0.25, v[4])
	for i, name := range Names() {
		if name == EndsIn99 {
			assert.Equal(t, 1.0, v[i])
		}
		if name == IsInsurance || name == TransactionZScore {
			assert.Equal(t, 0.0, v[i])
		}
	}
}
