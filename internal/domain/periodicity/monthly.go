package periodicity

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
)

const (
	minMonthInterval   = 0.8
	maxMonthInterval   = 1.2
	maxMonthlyAmtDrift = 0.05
	// intervals shorter than this are treated as same-month noise
	monthNoise = 0.1
)

// MonthIntervals returns the calendar-month distance between consecutive
// sorted dates. The fractional part is the day difference over the length of
// the earlier date's month.
func MonthIntervals(ds []time.Time) []float64 {
	if len(ds) < 2 {
		return nil
	}

	sorted := make([]time.Time, len(ds))
	copy(sorted, ds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	out := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1], sorted[i]
		months := float64((b.Year()-a.Year())*12+int(b.Month())-int(a.Month())) +
			float64(b.Day()-a.Day())/float64(daysIn(a))
		if months < monthNoise {
			months = 0
		}
		out = append(out, months)
	}
	return out
}

// MonthlyWithMissingEntries is 1 when every consecutive interval is roughly
// one calendar month and the amounts stay within 5% of their mean.
func MonthlyWithMissingEntries(ds []time.Time, amounts []float64) float64 {
	intervals := MonthIntervals(ds)
	if len(intervals) == 0 {
		return 0
	}
	for _, m := range intervals {
		if m < minMonthInterval || m > maxMonthInterval {
			return 0
		}
	}

	if len(amounts) > 0 {
		mean := floats.Sum(amounts) / float64(len(amounts))
		if mean > 0 && (floats.Max(amounts)-floats.Min(amounts))/mean > maxMonthlyAmtDrift {
			return 0
		}
	}
	return 1
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
