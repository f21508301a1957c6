// Package osc provides phase-accumulating oscillators whose frequency may
// change every sample without resetting phase.
package osc

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Sine is a phase-accumulator sine oscillator.
type Sine struct {
	sampleRate float64
	phase      float64
}

// Option configures a Sine at construction.
type Option func(*Sine)

// WithPhase sets the initial phase in radians.
func WithPhase(rad float64) Option {
	return func(s *Sine) {
		s.phase = wrap(rad)
	}
}

// NewSine returns an oscillator running at sampleRate.
func NewSine(sampleRate float64, opts ...Option) (*Sine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("osc: sample rate must be > 0 and finite: %f", sampleRate)
	}

	s := &Sine{sampleRate: sampleRate}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// SampleRate returns the oscillator sample rate.
func (s *Sine) SampleRate() float64 { return s.sampleRate }

// Phase returns the current phase in [0, 2π).
func (s *Sine) Phase() float64 { return s.phase }

// Reset returns the phase to zero.
func (s *Sine) Reset() { s.phase = 0 }

// Next returns sin(phase) and advances the phase by one sample at freqHz.
// Non-finite frequencies hold the phase.
func (s *Sine) Next(freqHz float64) float64 {
	out := math.Sin(s.phase)
	if math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return out
	}
	s.phase = wrap(s.phase + twoPi*freqHz/s.sampleRate)
	return out
}

// Fill writes len(buf) samples at a constant frequency.
func (s *Sine) Fill(buf []float64, freqHz float64) {
	for i := range buf {
		buf[i] = s.Next(freqHz)
	}
}

func wrap(p float64) float64 {
	if p >= 0 && p < twoPi {
		return p
	}
	p = math.Mod(p, twoPi)
	if p < 0 {
		p += twoPi
	}
	return p
}
