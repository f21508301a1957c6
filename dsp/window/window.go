// Package window generates the cosine-sum tapers used by the spectrum
// analyser and the spectral test helpers.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeBlackman
)

// cosine-sum terms: w(x) = sum_k a_k cos(2 pi k x)
var terms = map[Type][]float64{
	TypeHann:     {0.5, -0.5},
	TypeBlackman: {0.42, -0.5, 0.08},
}

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeBlackman:
		return "blackman"
	default:
		return "unknown"
	}
}

// Option configures window generation.
type Option func(*options)

type options struct {
	periodic bool
}

// WithPeriodic selects the periodic form used for FFT framing. The default
// is the symmetric form.
func WithPeriodic() Option {
	return func(o *options) { o.periodic = true }
}

// Generate returns n window coefficients. Unknown types yield a
// rectangular window.
func Generate(t Type, n int, opts ...Option) []float64 {
	if n <= 0 {
		return nil
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	out := make([]float64, n)
	a, ok := terms[t]
	if !ok {
		for i := range out {
			out[i] = 1
		}
		return out
	}

	span := float64(n - 1)
	if o.periodic {
		span = float64(n)
	}
	for i := range out {
		x := 0.0
		if span > 0 {
			x = 2 * math.Pi * float64(i) / span
		}
		for k, ak := range a {
			out[i] += ak * math.Cos(float64(k)*x)
		}
	}
	return out
}

// Apply tapers buf in place.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}
	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// CoherentGain returns the mean of the coefficients, the factor by which a
// bin-centred sinusoid is attenuated.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}
