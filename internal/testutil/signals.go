// Package testutil holds reference signals and assertions shared by the
// synthesis tests.
package testutil

import (
	"math"
	"math/rand"
	"testing"
)

// Sine returns n samples of amp·sin(2πf·i/sr) starting at phase 0.
func Sine(freqHz, sampleRate, amp float64, n int) []float64 {
	out := make([]float64, n)
	w := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amp * math.Sin(w*float64(i))
	}
	return out
}

// UniformNoise returns the white sequence a noise generator seeded with
// seed produces: uniform in [-amp, amp), drawing one Float64 per sample.
func UniformNoise(seed int64, amp float64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * (2*rng.Float64() - 1)
	}
	return out
}

// RequireClose fails t at the first index where got and want differ by
// more than eps.
func RequireClose(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length %d, want %d", len(got), len(want))
	}
	for i := range got {
		if d := math.Abs(got[i] - want[i]); d > eps {
			t.Fatalf("[%d] = %v, want %v (|diff| %g > %g)", i, got[i], want[i], d, eps)
		}
	}
}

// RequireFinite fails t on the first NaN or Inf in data.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("[%d] = %v", i, v)
		}
	}
}
