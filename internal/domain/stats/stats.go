// Package stats computes interval and amount summary statistics.
//
// The zero Stats value ({Mean: 0, Std: 0}) is the defined result for
// degenerate input and is relied on by every scorer downstream.
package stats

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// weeklyBuckets is the number of one-week histogram buckets used for
// interval entropy (one year of weeks).
const weeklyBuckets = 52

// Stats is a mean and population standard deviation.
type Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Summarize returns the mean and population standard deviation of values.
// Empty input yields the zero Stats.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return Stats{Mean: mean, Std: std}
}

// CV is the coefficient of variation, 0 when the mean is not positive.
func (s Stats) CV() float64 {
	if s.Mean <= 0 {
		return 0
	}
	return s.Std / s.Mean
}

// Gaps returns the day gaps between consecutive dates. Dates are sorted
// first, so every gap is non-negative. Fewer than two dates yield nil.
func Gaps(dates []time.Time) []int {
	if len(dates) < 2 {
		return nil
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, int(sorted[i].Sub(sorted[i-1]).Hours()/24))
	}
	return gaps
}

// Floats converts integer gaps to float64.
func Floats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// SummarizeGaps is Summarize over integer gaps.
func SummarizeGaps(gaps []int) Stats {
	return Summarize(Floats(gaps))
}

// WeeklyEntropy is the Shannon entropy of the weekly-bucketed gap histogram,
// normalized by ln(52) so it lies in [0, 1]. No gaps yield 0.
func WeeklyEntropy(gaps []int) float64 {
	if len(gaps) == 0 {
		return 0
	}

	counts := make([]float64, weeklyBuckets)
	for _, gap := range gaps {
		bucket := gap / 7
		if bucket < 1 {
			bucket = 1
		}
		if bucket > weeklyBuckets {
			bucket = weeklyBuckets
		}
		counts[bucket-1]++
	}

	total := floats.Sum(counts)
	if total == 0 {
		return 0
	}
	floats.Scale(1/total, counts)

	return stat.Entropy(counts) / math.Log(weeklyBuckets)
}

// Distinct counts distinct values.
func Distinct(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
