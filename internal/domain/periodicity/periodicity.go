// Package periodicity scores how closely a merchant history follows a
// canonical recurring cadence (weekly, monthly, yearly).
package periodicity

import (
	"math"

	"github.com/eshaffer321/recurscan/internal/domain/stats"
)

// target is a canonical period and the absolute tolerance, in days, within
// which a mean interval still counts as that period.
type target struct {
	days      float64
	tolerance float64
}

var periodicTargets = []target{
	{days: 7, tolerance: 2},
	{days: 30, tolerance: 3},
	{days: 365, tolerance: 10},
}

// maxPeriodicStd gates NearPeriodic: histories this dispersed score 0.
const maxPeriodicStd = 5.0

// dayWindow is the day-of-month spread at which MonthlyDayConsistency hits 0.
const dayWindow = 5.0

// MonthlyDayConsistency scores how few distinct days of the month the
// history falls on: 1 - min((unique-1)/5, 1). Histories of at most one
// transaction, or with no valid dates, score 0.
func MonthlyDayConsistency(days []int, historyLen int) float64 {
	if historyLen <= 1 || len(days) == 0 {
		return 0
	}

	unique := make(map[int]struct{}, len(days))
	for _, d := range days {
		unique[d] = struct{}{}
	}

	return 1 - math.Min(float64(len(unique)-1)/dayWindow, 1)
}

// NearPeriodic scores closeness of the mean interval to 7, 30 or 365 days.
// Only histories with interval std below 5 days score above 0; the best
// matching target wins.
func NearPeriodic(intervals stats.Stats) float64 {
	if intervals.Mean == 0 || intervals.Std >= maxPeriodicStd {
		return 0
	}

	best := 0.0
	for _, t := range periodicTargets {
		deviation := math.Abs(intervals.Mean-t.days) / t.days
		score := 1 - math.Min(deviation/(t.tolerance/t.days), 1)
		best = math.Max(best, score)
	}
	return best
}
