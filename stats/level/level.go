// Package level measures sample levels of rendered audio in dBFS.
package level

import "math"

// Stats summarizes one channel.
type Stats struct {
	Frames int
	Peak   float64
	PeakDB float64
	RMS    float64
	RMSDB  float64
	DC     float64
	// CrestDB is peak over RMS in dB, 0 for silence.
	CrestDB float64
	// Clipped counts samples with |x| >= 1.
	Clipped int
}

// DB converts an amplitude to dBFS. Zero maps to -Inf.
func DB(amplitude float64) float64 {
	a := math.Abs(amplitude)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}

// Calculate measures signal in a single pass.
func Calculate(signal []float64) Stats {
	if len(signal) == 0 {
		return Stats{PeakDB: math.Inf(-1), RMSDB: math.Inf(-1)}
	}

	var (
		sum, sumSq, peak float64
		clipped          int
	)
	for _, x := range signal {
		sum += x
		sumSq += x * x
		a := math.Abs(x)
		peak = math.Max(peak, a)
		if a >= 1 {
			clipped++
		}
	}

	n := float64(len(signal))
	rms := math.Sqrt(sumSq / n)
	s := Stats{
		Frames:  len(signal),
		Peak:    peak,
		PeakDB:  DB(peak),
		RMS:     rms,
		RMSDB:   DB(rms),
		DC:      sum / n,
		Clipped: clipped,
	}
	if rms > 0 {
		s.CrestDB = DB(peak / rms)
	}
	return s
}

// Channels measures each channel of a planar buffer.
func Channels(channels [][]float64) []Stats {
	out := make([]Stats, len(channels))
	for i, ch := range channels {
		out[i] = Calculate(ch)
	}
	return out
}

// RMS returns the root-mean-square of signal, 0 when empty.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}
	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the largest absolute sample.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		peak = math.Max(peak, math.Abs(x))
	}
	return peak
}
