package periodicity

import (
	"math"
	"math/cmplx"
	"sort"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/eshaffer321/recurscan/internal/domain/stats"
)

const secondsPerDay = 24 * 60 * 60

// maxSeriesDays caps the daily series fed to the FFT. Longer histories are
// scored on their most recent window.
const maxSeriesDays = 3660

// harmonicRatios are reciprocals of the common billing periods, in days.
var harmonicRatios = []float64{1.0 / 7, 1.0 / 14, 1.0 / 30, 1.0 / 90, 1.0 / 180, 1.0 / 365}

// ClusterScore finds the dominant frequency of the merchant's transaction
// timestamps and scores how close its period is to a common billing cycle.
//
// The dates become a daily impulse series spanning first to last
// transaction (one sample per 86400s, 1 on transaction days). The mean is
// removed, a real FFT is taken, components above one cycle per day are
// discarded, and the strongest remaining bin gives the period. The score is
// max over ratios r of exp(-10 * |period*r - 1|).
//
// Fewer than two intervals, or no non-zero dominant frequency, score 0.
// Short histories (under about five dates) are noisy.
func ClusterScore(dates []time.Time) float64 {
	if len(stats.Gaps(dates)) < 2 {
		return 0
	}

	series := impulseSeries(dates)
	n := len(series)
	if n < 2 {
		return 0
	}

	floats.AddConst(-floats.Sum(series)/float64(n), series)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, series)

	dominant := 0
	strongest := 0.0
	for i := 1; i < len(coeffs); i++ {
		hz := fft.Freq(i) / secondsPerDay
		if hz > 1.0/secondsPerDay {
			continue
		}
		if mag := cmplx.Abs(coeffs[i]); mag > strongest {
			strongest = mag
			dominant = i
		}
	}
	if dominant == 0 {
		return 0
	}

	period := 1 / fft.Freq(dominant) // days per cycle

	best := 0.0
	for _, ratio := range harmonicRatios {
		best = math.Max(best, math.Exp(-10*math.Abs(period*ratio-1)))
	}
	return best
}

// impulseSeries lays the dates on a one-day grid from the first to the last
// date, truncated to the most recent maxSeriesDays.
func impulseSeries(dates []time.Time) []float64 {
	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	last := sorted[len(sorted)-1]
	first := sorted[0]
	span := int(last.Sub(first).Hours() / 24)
	if span >= maxSeriesDays {
		span = maxSeriesDays - 1
		first = last.AddDate(0, 0, -span)
	}

	series := make([]float64, span+1)
	for _, d := range sorted {
		offset := int(d.Sub(first).Hours() / 24)
		if offset < 0 {
			continue
		}
		series[offset] = 1
	}
	return series
}
