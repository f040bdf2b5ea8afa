// Package consistency scores amount and interval stability of a merchant
// history, and blends them into the composite irregularity scores.
package consistency

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/recurscan/internal/domain/stats"
)

const (
	// DefaultAbsoluteTolerance and DefaultRelativeTolerance are the amount
	// consistency bands: within 50 cents, or within 5% of the mean.
	DefaultAbsoluteTolerance = 0.5
	DefaultRelativeTolerance = 0.05

	lowVariationCV     = 0.1
	varyingAmountCV    = 0.002
	varyingIntervalStd = 45.0
	sameAmountBand     = 0.01
	sameAmountEpsilon  = 1e-8
	specificAmountBand = 0.05
)

// AmountDispersionRatio is std/mean of the amounts, 0 when the mean is not
// positive.
func AmountDispersionRatio(amounts stats.Stats) float64 {
	return amounts.CV()
}

// AmountConsistency returns the fraction of positive amounts lying within
// absTol, or within relTol of the mean, of their mean. Arithmetic is exact
// decimal. Fewer than two positive amounts score 0.
func AmountConsistency(amounts []float64, absTol, relTol float64) float64 {
	positive := make([]decimal.Decimal, 0, len(amounts))
	for _, a := range amounts {
		if a > 0 {
			positive = append(positive, decimal.NewFromFloat(a))
		}
	}
	if len(positive) < 2 {
		return 0
	}

	mean := decimal.Sum(positive[0], positive[1:]...).Div(decimal.NewFromInt(int64(len(positive))))
	abs := decimal.NewFromFloat(absTol)
	rel := decimal.NewFromFloat(relTol)

	consistent := 0
	for _, a := range positive {
		diff := a.Sub(mean).Abs()
		if diff.LessThanOrEqual(abs) || diff.Div(mean).LessThanOrEqual(rel) {
			consistent++
		}
	}
	return float64(consistent) / float64(len(positive))
}

// SameAmountCount counts amounts within 1% of the first amount, compared in
// exact decimal.
func SameAmountCount(amounts []float64) int {
	if len(amounts) == 0 {
		return 0
	}

	ref := decimal.NewFromFloat(amounts[0])
	denom := ref.Abs().Add(decimal.NewFromFloat(sameAmountEpsilon))
	band := decimal.NewFromFloat(sameAmountBand)

	count := 0
	for _, a := range amounts {
		if decimal.NewFromFloat(a).Sub(ref).Abs().Div(denom).LessThanOrEqual(band) {
			count++
		}
	}
	return count
}

// LowAmountVariation is 1 when the amount CV is at most 0.1. A non-positive
// mean never qualifies.
func LowAmountVariation(amounts stats.Stats) int {
	if amounts.Mean <= 0 {
		return 0
	}
	if amounts.Std/amounts.Mean <= lowVariationCV {
		return 1
	}
	return 0
}

// VaryingAmountRecurring flags histories with steady intervals (std under 45
// days) whose amounts still move (CV over 0.002).
func VaryingAmountRecurring(intervals, amounts stats.Stats) int {
	if intervals.Std < varyingIntervalStd && amounts.Mean > 0 && amounts.Std/amounts.Mean > varyingAmountCV {
		return 1
	}
	return 0
}

// ZScore is the amount's z-score against the population of all amounts, 0
// when they do not vary.
func ZScore(amount float64, population stats.Stats) float64 {
	if population.Std == 0 || math.IsNaN(population.Std) {
		return 0
	}
	return (amount - population.Mean) / population.Std
}
