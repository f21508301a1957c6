package spectrum

import "github.com/cwbudde/algo-vecmath"

// Power returns |X[k]|^2 for every bin of in.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))
	for k, c := range in {
		re[k], im[k] = real(c), imag(c)
	}

	out := make([]float64, len(in))
	vecmath.Power(out, re, im)
	return out
}

// MeanPower averages power over bins [lo, hi), clipped to the slice. An
// empty band yields 0.
func MeanPower(power []float64, lo, hi int) float64 {
	lo = max(lo, 0)
	hi = min(hi, len(power))
	if hi <= lo {
		return 0
	}

	sum := 0.0
	for _, p := range power[lo:hi] {
		sum += p
	}
	return sum / float64(hi-lo)
}

// BinFrequency returns the centre frequency of bin k of an fftSize-point
// transform.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	if fftSize <= 0 {
		return 0
	}
	return float64(k) * sampleRate / float64(fftSize)
}
