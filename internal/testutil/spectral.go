package testutil

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-tinnitus/dsp/spectrum"
	"github.com/cwbudde/algo-tinnitus/dsp/window"
)

var errShortSignal = errors.New("testutil: signal shorter than 64 samples")

// Periodogram returns the Hann-windowed power spectrum |X[k]|^2 of the
// largest power-of-two prefix of x, for bins 0..N/2.
func Periodogram(x []float64) ([]float64, error) {
	n := 1
	for n*2 <= len(x) {
		n *= 2
	}
	if n < 64 {
		return nil, errShortSignal
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("testutil: fft plan: %w", err)
	}

	win := window.Generate(window.TypeHann, n, window.WithPeriodic())
	in := make([]complex128, n)
	for i := range in {
		in[i] = complex(x[i]*win[i], 0)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("testutil: fft: %w", err)
	}

	return spectrum.Power(out[:n/2+1]), nil
}

// BandRatioDB compares the mean spectral power of x in [hiLo, hiHi) Hz
// against [loLo, loHi) Hz and returns the ratio in dB.
func BandRatioDB(x []float64, sampleRate, hiLo, hiHi, loLo, loHi float64) (float64, error) {
	power, err := Periodogram(x)
	if err != nil {
		return 0, err
	}

	n := 2 * (len(power) - 1)
	bin := func(hz float64) int { return int(math.Round(hz * float64(n) / sampleRate)) }

	hi := spectrum.MeanPower(power, bin(hiLo), bin(hiHi))
	lo := spectrum.MeanPower(power, bin(loLo), bin(loHi))
	if hi <= 0 || lo <= 0 {
		return 0, fmt.Errorf("testutil: empty band (hi=%v lo=%v)", hi, lo)
	}

	return 10 * math.Log10(hi/lo), nil
}

// PeakFrequency returns the frequency of the strongest non-DC bin of x.
func PeakFrequency(x []float64, sampleRate float64) (float64, error) {
	power, err := Periodogram(x)
	if err != nil {
		return 0, err
	}

	peak := 1
	for k := 2; k < len(power); k++ {
		if power[k] > power[peak] {
			peak = k
		}
	}

	return spectrum.BinFrequency(peak, 2*(len(power)-1), sampleRate), nil
}
