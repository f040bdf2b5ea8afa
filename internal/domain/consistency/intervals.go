package consistency

import (
	"math"

	"github.com/eshaffer321/recurscan/internal/domain/stats"
)

// DefaultIntervalTolerance is the day slack for IntervalConsistency.
const DefaultIntervalTolerance = 5

// trustedIntervals are gaps, in days, that real billing cycles land on.
var trustedIntervals = []int{7, 14, 17, 28, 30, 31, 45, 60, 90, 180, 365, 380}

const maxIntervalVariability = 2.0

// IntervalConsistency finds the modal gap (first seen wins ties) and, when it
// is within tolerance of a trusted billing interval, returns the fraction of
// gaps within tolerance of the mode. Otherwise 0.
func IntervalConsistency(gaps []int, tolerance int) float64 {
	if len(gaps) == 0 {
		return 0
	}

	mode := modalGap(gaps)
	if !nearAny(mode, trustedIntervals, tolerance) {
		return 0
	}

	consistent := 0
	for _, g := range gaps {
		if abs(g-mode) <= tolerance {
			consistent++
		}
	}
	return float64(consistent) / float64(len(gaps))
}

// modalGap returns the most frequent gap; ties go to the gap seen first.
func modalGap(gaps []int) int {
	counts := make(map[int]int, len(gaps))
	best := 0
	for _, g := range gaps {
		counts[g]++
		if counts[g] > best {
			best = counts[g]
		}
	}
	for _, g := range gaps {
		if counts[g] == best {
			return g
		}
	}
	return 0
}

func nearAny(v int, targets []int, tolerance int) bool {
	for _, t := range targets {
		if abs(v-t) <= tolerance {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// IntervalVariability is the interval CV capped at 2, or 1 when there is no
// mean interval to compare against.
func IntervalVariability(intervals stats.Stats) float64 {
	if intervals.Mean == 0 {
		return 1
	}
	return math.Min(intervals.Std/intervals.Mean, maxIntervalVariability)
}

// DayConsistency scores how tightly the days of the month cluster:
// 1 - min(std/3, 1). One day is neutral (0.5); none scores 0.
func DayConsistency(days []int) float64 {
	switch len(days) {
	case 0:
		return 0
	case 1:
		return 0.5
	}
	s := stats.Summarize(stats.Floats(days))
	return 1 - math.Min(s.Std/3, 1)
}

// SameAmountSpecificIntervals is true when every amount is within 5 cents of
// the first and at least one gap looks monthly (27-45 days), yearly
// (379-381) or biweekly (15-17).
func SameAmountSpecificIntervals(amounts []float64, gaps []int) bool {
	if len(amounts) < 2 || len(gaps) == 0 {
		return false
	}

	ref := amounts[0]
	for _, a := range amounts {
		if math.Abs(a-ref) >= specificAmountBand {
			return false
		}
	}

	for _, g := range gaps {
		if (g >= 27 && g <= 45) || (g >= 379 && g <= 381) || (g >= 15 && g <= 17) {
			return true
		}
	}
	return false
}
