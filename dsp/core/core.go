// Package core holds the numeric helpers and block constants shared by the
// synthesis packages.
package core

import "math"

// RenderQuantum is the number of frames between control-rate updates.
// Filter coefficients of a ramping parameter are recomputed once per
// quantum, and the live and offline paths split their work on the same
// boundaries.
const RenderQuantum = 128

// Clamp limits value to [lo, hi]. Swapped bounds are reordered.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, value))
}

// ClampFinite maps NaN and ±Inf to fallback, then clamps to [lo, hi].
func ClampFinite(value, lo, hi, fallback float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = fallback
	}
	return Clamp(value, lo, hi)
}

// DBToLinear converts a level in dB to an amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

