// Package safe sanitizes scorer output at the point features are assembled.
// Each wrapper recovers from a panicking scorer and maps non-finite or
// out-of-domain values to the zero value.
package safe

import "math"

// Float runs fn and returns its result, or 0 when fn panics, returns
// NaN/Inf, or returns a value <= 0.
func Float(fn func() float64) (v float64) {
	defer func() {
		if recover() != nil {
			v = 0
		}
	}()
	v = fn()
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

// Signed is Float for scorers whose sign is meaningful: negatives pass
// through.
func Signed(fn func() float64) (v float64) {
	defer func() {
		if recover() != nil {
			v = 0
		}
	}()
	v = fn()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Int runs fn and returns its result, or 0 when fn panics or returns a value
// <= 0.
func Int(fn func() int) (v int) {
	defer func() {
		if recover() != nil {
			v = 0
		}
	}()
	v = fn()
	if v <= 0 {
		return 0
	}
	return v
}

// Bool runs fn, returning false when it panics.
func Bool(fn func() bool) (v bool) {
	defer func() {
		if recover() != nil {
			v = false
		}
	}()
	return fn()
}
