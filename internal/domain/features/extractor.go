// Package features assembles the flat recurrence feature map for a
// transaction from its owner's full transaction history.
//
// Example usage:
//
//	e := features.NewExtractor(features.DefaultConfig(), logger)
//	for i, f := range e.ExtractBatch(txs) {
//		fmt.Println(txs[i].ID, f[features.IsMonthlyRecurring])
//	}
package features

import (
	"io"
	"log/slog"
	"time"

	"github.com/eshaffer321/recurscan/internal/domain/consistency"
	"github.com/eshaffer321/recurscan/internal/domain/dates"
	"github.com/eshaffer321/recurscan/internal/domain/grouping"
	"github.com/eshaffer321/recurscan/internal/domain/periodicity"
	"github.com/eshaffer321/recurscan/internal/domain/safe"
	"github.com/eshaffer321/recurscan/internal/domain/stats"
	"github.com/eshaffer321/recurscan/internal/domain/transaction"
	"github.com/eshaffer321/recurscan/internal/domain/vendor"
)

const (
	neutralIntervalStd  = 30.0
	neutralIntervalMean = 60.0
	daysPerYear         = 365.0
	depositMinHistory   = 3
	rollingWindow       = 3
)

// Extractor computes Features. It is safe for concurrent use; the date cache
// is its only mutable state.
type Extractor struct {
	config  Config
	parser  *dates.Parser
	vendors *vendor.Classifier
	logger  *slog.Logger
}

// NewExtractor creates an extractor. A nil logger discards output.
func NewExtractor(config Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{
		config:  config,
		parser:  dates.NewParser(config.DateCacheSize),
		vendors: vendor.NewClassifier(config.Vendors),
		logger:  logger,
	}
}

// Parser exposes the extractor's date parser.
func (e *Extractor) Parser() *dates.Parser {
	return e.parser
}

// Extract computes the features of tx against all. all should contain tx;
// the merchant history is every transaction in all sharing tx's owner and
// name.
func (e *Extractor) Extract(tx transaction.Transaction, all []transaction.Transaction) Features {
	return e.ExtractIndexed(tx, grouping.NewIndex(all))
}

// ExtractBatch computes features for every transaction in txs against txs,
// grouping once. Output order matches input order.
func (e *Extractor) ExtractBatch(txs []transaction.Transaction) []Features {
	idx := grouping.NewIndex(txs)
	out := make([]Features, len(txs))
	for i, tx := range txs {
		out[i] = e.ExtractIndexed(tx, idx)
	}
	return out
}

// merchant is the derived state shared by every scorer for one history.
type merchant struct {
	history     []transaction.Transaction // sorted by date
	timeline    dates.Timeline
	dates       []time.Time
	days        []int
	gaps        []int
	intervals   stats.Stats
	amounts     []float64
	amountStats stats.Stats

	// clustering helpers also accept slashed dates
	clusterDates []time.Time
	clusterGaps  []int
}

func (e *Extractor) merchant(tx transaction.Transaction, history []transaction.Transaction) *merchant {
	m := &merchant{
		history:  history,
		timeline: dates.NewTimeline(history, e.parser.Parse),
		amounts:  transaction.Amounts(history),
	}
	m.dates = m.timeline.Dates()
	m.days = make([]int, len(m.dates))
	for i, d := range m.dates {
		m.days[i] = d.Day()
	}
	m.gaps = stats.Gaps(m.dates)
	m.intervals = stats.SummarizeGaps(m.gaps)
	m.amountStats = stats.Summarize(m.amounts)

	m.clusterDates = dates.NewTimeline(history, e.parser.ParseClustering).Dates()
	m.clusterGaps = stats.Gaps(m.clusterDates)

	if n := m.timeline.Invalid(); n > 0 {
		e.logger.Debug("excluded malformed dates",
			"user_id", tx.UserID,
			"name", tx.Name,
			"excluded", n,
			"history", len(history))
	}
	return m
}

// ExtractIndexed computes the features of tx against a prebuilt index.
func (e *Extractor) ExtractIndexed(tx transaction.Transaction, idx *grouping.Index) Features {
	m := e.merchant(tx, idx.SortedHistory(tx))
	n := len(m.history)
	total := idx.Total()

	subjectDate, subjectOK := e.parser.Parse(tx.Date)
	subject := dates.Entry{Tx: tx, Date: subjectDate, Valid: subjectOK}

	f := make(Features, len(names))

	// amounts across the whole batch
	f[NTransactionsSameAmount] = safe.Int(func() int { return idx.Amounts[tx.Amount] })
	f[PercentTransactionsSameAmount] = safe.Float(func() float64 {
		if total == 0 {
			return 0
		}
		return float64(idx.Amounts[tx.Amount]) / float64(total)
	})
	f[IdenticalTransactionRatio] = safe.Float(func() float64 {
		if total == 0 {
			return 0
		}
		identical := 0
		for _, h := range m.history {
			if h.Amount == tx.Amount && h.Name == tx.Name {
				identical++
			}
		}
		return float64(identical) / float64(total)
	})
	f[TransactionZScore] = safe.Signed(func() float64 { return consistency.ZScore(tx.Amount, idx.AmountStats) })

	// periodicity
	f[IsMonthlyRecurring] = safe.Float(func() float64 { return periodicity.MonthlyDayConsistency(m.days, n) })
	f[IsNearPeriodicInterval] = safe.Float(func() float64 { return periodicity.NearPeriodic(m.intervals) })
	f[IntervalClusterScore] = safe.Float(func() float64 { return periodicity.ClusterScore(m.clusterDates) })
	f[MonthlyWithMissingEntries] = safe.Float(func() float64 {
		if n < 2 {
			return 0
		}
		return periodicity.MonthlyWithMissingEntries(m.dates, m.amounts)
	})

	for _, c := range []struct {
		count, pct     string
		gap, tolerance int
	}{
		{NTransactions7DaysApart0Off, PctTransactions7DaysApart0Off, 7, 0},
		{NTransactions7DaysApart1Off, PctTransactions7DaysApart1Off, 7, 1},
		{NTransactions14DaysApart0Off, PctTransactions14DaysApart0Off, 14, 0},
		{NTransactions14DaysApart1Off, PctTransactions14DaysApart1Off, 14, 1},
	} {
		f[c.count] = safe.Int(func() int {
			return periodicity.CountNearMultiple(subject, m.timeline, c.gap, c.tolerance)
		})
		f[c.pct] = safe.Float(func() float64 {
			return periodicity.PctNearMultiple(subject, m.timeline, c.gap, c.tolerance)
		})
	}
	for _, c := range []struct {
		count, pct string
		daysOff    int
	}{
		{NTransactionsSameDay0Off, PctTransactionsSameDay0Off, 0},
		{NTransactionsSameDay1Off, PctTransactionsSameDay1Off, 1},
	} {
		f[c.count] = safe.Int(func() int {
			return periodicity.CountSameDayOfMonth(e.parser, tx, m.history, c.daysOff)
		})
		f[c.pct] = safe.Float(func() float64 {
			return periodicity.PctSameDayOfMonth(e.parser, tx, m.history, c.daysOff)
		})
	}

	// interval statistics
	f[MerchantIntervalStd] = neutralIntervalStd
	f[MerchantIntervalMean] = neutralIntervalMean
	if m.intervals.Mean != 0 {
		f[MerchantIntervalStd] = safe.Float(func() float64 { return m.intervals.Std })
		f[MerchantIntervalMean] = safe.Float(func() float64 { return m.intervals.Mean })
	}
	f[IntervalVariability] = safe.Float(func() float64 { return consistency.IntervalVariability(m.intervals) })
	f[TimeSinceLastSameMerchant] = safe.Float(func() float64 { return e.timeSinceLast(m) })

	// consistency
	amountConsistency := safe.Float(func() float64 {
		return consistency.AmountConsistency(m.amounts, e.config.AbsoluteTolerance, e.config.RelativeTolerance)
	})
	intervalConsistency := safe.Float(func() float64 {
		return consistency.IntervalConsistency(m.clusterGaps, e.config.IntervalTolerance)
	})
	uniqueAmounts := stats.Distinct(m.amounts)

	f[AmountConsistencyScore] = amountConsistency
	f[IntervalConsistencyScore] = intervalConsistency
	f[MerchantAmountStd] = safe.Float(func() float64 { return consistency.AmountDispersionRatio(m.amountStats) })
	f[DayConsistencyScore] = safe.Float(func() float64 { return consistency.DayConsistency(m.days) })
	f[RecurrenceLikelihood] = safe.Float(func() float64 {
		return consistency.RecurrenceLikelihood(n, m.intervals, m.amountStats)
	})
	f[IsVaryingAmountRecurring] = safe.Int(func() int {
		return consistency.VaryingAmountRecurring(m.intervals, m.amountStats)
	})
	f[LowAmountVariation] = safe.Int(func() int { return consistency.LowAmountVariation(m.amountStats) })
	f[SameAmountCount] = safe.Int(func() int { return consistency.SameAmountCount(m.amounts) })
	f[SameAmountSpecificIntervals] = safe.Bool(func() bool {
		return consistency.SameAmountSpecificIntervals(m.amounts, m.clusterGaps)
	})
	f[NonRecurringIrregularity] = safe.Float(func() float64 {
		return consistency.Irregularity(n, m.intervals, m.amountStats)
	})
	f[TransactionPatternComplexity] = safe.Float(func() float64 {
		return consistency.PatternComplexity(n, m.gaps, m.intervals, uniqueAmounts)
	})
	f[DateIrregularityDominance] = safe.Float(func() float64 {
		return consistency.DateIrregularityDominance(n, m.gaps, m.intervals, m.amountStats)
	})

	// history shape
	f[IsSingleTransaction] = boolInt(n == 1)
	f[IsDeposit] = boolInt(tx.Amount > 0 && n >= depositMinHistory)
	f[MerchantAmountFrequency] = uniqueAmounts
	f[RollingAmountMean] = safe.Signed(func() float64 { return rollingMean(m.amounts) })

	// calendar
	f[DayOfWeek] = 0
	f[TransactionMonth] = 0
	if subjectOK {
		f[DayOfWeek] = (int(subjectDate.Weekday()) + 6) % 7
		f[TransactionMonth] = int(subjectDate.Month())
	}

	// vendor
	knownRecurring := safe.Bool(func() bool { return e.vendors.IsKnownRecurring(tx.Name) })
	knownNonRecurring := safe.Bool(func() bool { return e.vendors.IsKnownNonRecurring(tx.Name) })
	f[IsKnownRecurringVendor] = knownRecurring
	f[IsKnownNonRecurringVendor] = knownNonRecurring
	f[IsAlwaysRecurring] = safe.Bool(func() bool { return e.vendors.AlwaysRecurring(tx.Name) })
	f[RecurringVendorSimilarity] = safe.Float(func() float64 { return e.vendors.RecurringSimilarity(tx.Name) })
	f[IsInsurance] = safe.Bool(func() bool { return vendor.IsInsurance(tx.Name) })
	f[IsUtility] = safe.Bool(func() bool { return vendor.IsUtility(tx.Name) })
	f[IsPhone] = safe.Bool(func() bool { return vendor.IsPhone(tx.Name) })
	f[IsAmazonPrime] = safe.Bool(func() bool { return vendor.IsAmazonPrime(tx.Name) })
	f[IsAlbert99Recurring] = safe.Bool(func() bool { return vendor.IsAlbertFee(tx.Name, tx.Amount) })
	f[EndsIn99] = safe.Bool(func() bool { return vendor.EndsIn99(tx.Amount) })

	f[CombinedRecurrenceScore] = safe.Float(func() float64 {
		return consistency.CombinedRecurrence(knownRecurring, knownNonRecurring, amountConsistency, intervalConsistency)
	})

	return f
}

func (e *Extractor) timeSinceLast(m *merchant) float64 {
	switch {
	case len(m.dates) >= 2:
		return m.intervals.Mean / daysPerYear
	case len(m.dates) == 1 && !e.config.AsOf.IsZero():
		return float64(dates.DaysBetween(m.dates[0], e.config.AsOf)) / daysPerYear
	}
	return 0
}

func rollingMean(amounts []float64) float64 {
	if len(amounts) == 0 {
		return 0
	}
	window := amounts[max(0, len(amounts)-rollingWindow):]
	return stats.Summarize(window).Mean
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
