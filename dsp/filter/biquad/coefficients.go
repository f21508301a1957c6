package biquad

import (
	"math"
	"math/cmplx"
)

// Coefficients is a normalised biquad transfer function (a0 = 1):
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (1 + A1 z^-1 + A2 z^-2)
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Identity returns the passthrough transfer function.
func Identity() Coefficients {
	return Coefficients{B0: 1}
}

// IsFinite reports whether no coefficient is NaN or infinite.
func (c Coefficients) IsFinite() bool {
	sum := c.B0 + c.B1 + c.B2 + c.A1 + c.A2
	return !math.IsNaN(sum) && !math.IsInf(sum, 0)
}

// IsStable reports whether both poles lie strictly inside the unit circle.
func (c Coefficients) IsStable() bool {
	return math.Abs(c.A2) < 1 && math.Abs(c.A1) < 1+c.A2
}

// Response evaluates H(e^jw) at freqHz.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	z1 := cmplx.Exp(complex(0, -2*math.Pi*freqHz/sampleRate))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return num / den
}

// Magnitude returns |H| at freqHz.
func (c Coefficients) Magnitude(freqHz, sampleRate float64) float64 {
	return cmplx.Abs(c.Response(freqHz, sampleRate))
}

// MagnitudeDB returns the gain at freqHz in dB.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(c.Magnitude(freqHz, sampleRate))
}
