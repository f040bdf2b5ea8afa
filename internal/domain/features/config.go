package features

import (
	"time"

	"github.com/eshaffer321/recurscan/internal/domain/consistency"
	"github.com/eshaffer321/recurscan/internal/domain/dates"
	"github.com/eshaffer321/recurscan/internal/domain/vendor"
)

// Config holds the static configuration of an Extractor.
type Config struct {
	// DateCacheSize bounds the parsed-date LRU.
	DateCacheSize int

	// Amount consistency bands.
	AbsoluteTolerance float64
	RelativeTolerance float64

	// IntervalTolerance is the day slack around the modal gap.
	IntervalTolerance int

	// AsOf anchors time_since_last_transaction_same_merchant for merchants
	// with a single dated transaction. Zero leaves that case at 0 so that
	// extraction stays deterministic.
	AsOf time.Time

	Vendors vendor.Lists
}

// DefaultConfig returns the stock tolerances and vendor lists.
func DefaultConfig() Config {
	return Config{
		DateCacheSize:     dates.DefaultCacheSize,
		AbsoluteTolerance: consistency.DefaultAbsoluteTolerance,
		RelativeTolerance: consistency.DefaultRelativeTolerance,
		IntervalTolerance: consistency.DefaultIntervalTolerance,
		Vendors:           vendor.DefaultLists(),
	}
}
