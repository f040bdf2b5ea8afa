package periodicity

import (
	"github.com/eshaffer321/recurscan/internal/domain/dates"
	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

// DayParser extracts the day of the month from a canonical date string.
type DayParser interface {
	DayOfMonth(text string) (int, error)
}

// CountNearMultiple counts history entries whose absolute day distance d from
// subject is at least gap-tolerance and within tolerance of a multiple of gap.
// Entries with unparseable dates are skipped; an unparseable subject counts 0.
func CountNearMultiple(subject dates.Entry, history dates.Timeline, gap, tolerance int) int {
	if !subject.Valid || gap <= 0 {
		return 0
	}

	lower := gap - tolerance
	count := 0
	for _, e := range history {
		if !e.Valid {
			continue
		}
		d := dates.DaysBetween(subject.Date, e.Date)
		if d < 0 {
			d = -d
		}
		if d < lower {
			continue
		}
		if r := d % gap; r <= tolerance || r >= lower {
			count++
		}
	}
	return count
}

// PctNearMultiple is CountNearMultiple over the history length.
func PctNearMultiple(subject dates.Entry, history dates.Timeline, gap, tolerance int) float64 {
	if len(history) == 0 {
		return 0
	}
	return float64(CountNearMultiple(subject, history, gap, tolerance)) / float64(len(history))
}

// CountSameDayOfMonth counts transactions whose day of the month is within
// daysOff of the subject's, the subject itself included when present.
func CountSameDayOfMonth(p DayParser, subject transaction.Transaction, txs []transaction.Transaction, daysOff int) int {
	want, err := p.DayOfMonth(subject.Date)
	if err != nil {
		return 0
	}

	count := 0
	for _, tx := range txs {
		got, err := p.DayOfMonth(tx.Date)
		if err != nil {
			continue
		}
		diff := got - want
		if diff < 0 {
			diff = -diff
		}
		if diff <= daysOff {
			count++
		}
	}
	return count
}

// PctSameDayOfMonth is CountSameDayOfMonth over len(txs).
func PctSameDayOfMonth(p DayParser, subject transaction.Transaction, txs []transaction.Transaction, daysOff int) float64 {
	if len(txs) == 0 {
		return 0
	}
	return float64(CountSameDayOfMonth(p, subject, txs, daysOff)) / float64(len(txs))
}
