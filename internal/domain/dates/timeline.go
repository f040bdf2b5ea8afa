package dates

import (
	"time"

	"github.com/eshaffer321/recurscan/internal/domain/transaction"
)

// ParseFunc is one of the Parser's parse paths.
type ParseFunc func(text string) (time.Time, bool)

// Entry pairs a transaction with its date, resolved once at ingestion.
type Entry struct {
	Tx    transaction.Transaction
	Date  time.Time
	Valid bool // false when the date string did not parse
}

// Timeline is a merchant history with resolved dates, in history order.
type Timeline []Entry

// NewTimeline resolves every transaction's date with parse.
func NewTimeline(txs []transaction.Transaction, parse ParseFunc) Timeline {
	tl := make(Timeline, len(txs))
	for i, tx := range txs {
		d, ok := parse(tx.Date)
		tl[i] = Entry{Tx: tx, Date: d, Valid: ok}
	}
	return tl
}

// Dates returns the valid dates in timeline order.
func (tl Timeline) Dates() []time.Time {
	out := make([]time.Time, 0, len(tl))
	for _, e := range tl {
		if e.Valid {
			out = append(out, e.Date)
		}
	}
	return out
}

// Invalid counts entries whose date failed to parse.
func (tl Timeline) Invalid() int {
	n := 0
	for _, e := range tl {
		if !e.Valid {
			n++
		}
	}
	return n
}

// DaysBetween returns the whole-day difference b - a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
