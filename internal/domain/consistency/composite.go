package consistency

import (
	"math"

	"github.com/eshaffer321/recurscan/internal/domain/stats"
)

// frequencySaturation is the history length at which the frequency
// sub-score saturates.
const frequencySaturation = 5.0

var dominanceTargets = []float64{7, 30, 365}

// Combined recurrence weights.
const (
	knownVendorWeight    = 0.25
	nonRecurringWeight   = -0.35
	amountScoreWeight    = 0.6
	intervalScoreWeight  = 0.15
	amountDiversityScale = 10.0
)

func frequency(n int) float64 {
	return math.Min(float64(n)/frequencySaturation, 1)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

// Irregularity blends interval CV, amount CV and a low-count penalty with
// weights 0.4/0.3/0.3. Higher means less like a recurring charge.
func Irregularity(n int, intervals, amounts stats.Stats) float64 {
	score := 0.4*math.Min(intervals.CV(), 1) +
		0.3*math.Min(amounts.CV(), 1) +
		0.3*(1-frequency(n))
	return clamp01(score)
}

// PatternComplexity blends weekly interval entropy, interval CV, amount
// diversity and a low-count penalty (0.4/0.3/0.2/0.1). No gaps score 0.
func PatternComplexity(n int, gaps []int, intervals stats.Stats, uniqueAmounts int) float64 {
	if len(gaps) == 0 {
		return 0
	}
	score := 0.4*stats.WeeklyEntropy(gaps) +
		0.3*math.Min(intervals.CV(), 1) +
		0.2*math.Min(float64(uniqueAmounts)/amountDiversityScale, 1) +
		0.1*(1-frequency(n))
	return clamp01(score)
}

// DateIrregularityDominance weights date irregularity most: weekly entropy,
// distance of the mean interval from 7/30/365 days, a low-count penalty and
// amount steadiness (0.5/0.3/0.1/0.1). Histories of one transaction are
// neutral at 0.5.
func DateIrregularityDominance(n int, gaps []int, intervals, amounts stats.Stats) float64 {
	if n <= 1 {
		return 0.5
	}

	deviation := math.Inf(1)
	for _, t := range dominanceTargets {
		deviation = math.Min(deviation, math.Abs(intervals.Mean-t)/t)
	}

	score := 0.5*stats.WeeklyEntropy(gaps) +
		0.3*math.Min(deviation*3, 1) +
		0.1*(1-frequency(n)) +
		0.1*(1-math.Min(amounts.CV(), 1))
	return clamp01(score)
}

// RecurrenceLikelihood multiplies an interval steadiness factor, an amount
// steadiness factor and a frequency factor. It is not clamped.
func RecurrenceLikelihood(n int, intervals, amounts stats.Stats) float64 {
	intervalFactor := 1 / (intervals.Std/10 + 1)

	amountFactor := 0.0
	if base := amounts.Mean + 0.01; base != 0 {
		if divisor := amounts.Std/base + 1; divisor != 0 {
			amountFactor = 1 / divisor
		}
	}

	return intervalFactor * amountFactor * frequency(n)
}

// CombinedRecurrence blends vendor membership with the amount and interval
// consistency scores, clamped to [0, 1].
func CombinedRecurrence(knownRecurring, knownNonRecurring bool, amountScore, intervalScore float64) float64 {
	score := amountScoreWeight*amountScore + intervalScoreWeight*intervalScore
	if knownRecurring {
		score += knownVendorWeight
	}
	if knownNonRecurring {
		score += nonRecurringWeight
	}
	return clamp01(score)
}
