// Package dates parses transaction date strings.
//
// Two layouts exist and they are deliberately not interchangeable:
//   - CanonicalLayout (YYYY-MM-DD) is used by every primary feature path.
//   - SlashedLayout (YYYY/MM/DD) is only accepted by the clustering helpers,
//     through ParseClustering.
//
// Parse and ParseSlashed report failure with a boolean and never panic.
// ParseStrict and DayOfMonth return ErrMalformedDate for inputs that are
// expected to be pre-validated.
//
// Example usage:
//
//	p := dates.NewParser(dates.DefaultCacheSize)
//	d, ok := p.Parse("2025-01-31")
//	if !ok {
//		// exclude from date-dependent computation
//	}
package dates

import (
	"errors"
	"fmt"
	"time"
)

// Supported layouts
const (
	CanonicalLayout = "2006-01-02"
	SlashedLayout   = "2006/01/02"
)

// ErrMalformedDate is returned by the strict parse path.
var ErrMalformedDate = errors.New("malformed date")

// Parser parses date strings and memoizes successful parses.
// It is safe for concurrent use.
type Parser struct {
	cache *Cache
}

// NewParser creates a parser backed by a cache of the given size
func NewParser(cacheSize int) *Parser {
	return &Parser{cache: NewCache(cacheSize)}
}

// Parse parses text in CanonicalLayout.
func (p *Parser) Parse(text string) (time.Time, bool) {
	return p.parse(CanonicalLayout, text)
}

// ParseSlashed parses text in SlashedLayout.
func (p *Parser) ParseSlashed(text string) (time.Time, bool) {
	return p.parse(SlashedLayout, text)
}

// ParseClustering is the parse path of the merchant clustering helpers:
// canonical first, then slashed.
func (p *Parser) ParseClustering(text string) (time.Time, bool) {
	if t, ok := p.Parse(text); ok {
		return t, true
	}
	return p.ParseSlashed(text)
}

// ParseStrict parses text in CanonicalLayout and returns a descriptive
// error wrapping ErrMalformedDate on mismatch.
func (p *Parser) ParseStrict(text string) (time.Time, error) {
	t, ok := p.Parse(text)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q does not match format %s", ErrMalformedDate, text, CanonicalLayout)
	}
	return t, nil
}

// DayOfMonth returns the day of month of a canonical date string.
func (p *Parser) DayOfMonth(text string) (int, error) {
	t, err := p.ParseStrict(text)
	if err != nil {
		return 0, err
	}
	return t.Day(), nil
}

// CacheSize returns the number of memoized parses
func (p *Parser) CacheSize() int {
	return p.cache.Size()
}

func (p *Parser) parse(layout, text string) (time.Time, bool) {
	key := layout + "|" + text
	if t, found := p.cache.Get(key); found {
		return t, true
	}

	t, err := time.Parse(layout, text)
	if err != nil {
		return time.Time{}, false
	}

	p.cache.Set(key, t)
	return t, true
}
