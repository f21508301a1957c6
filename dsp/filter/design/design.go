package design

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-tinnitus/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// Kind selects the response family of a second-order section.
type Kind int

const (
	KindAllpass Kind = iota
	KindPeaking
	KindHighShelf
	KindLowShelf
	KindNotch
)

var kindNames = map[Kind]string{
	KindAllpass:   "allpass",
	KindPeaking:   "peaking",
	KindHighShelf: "highshelf",
	KindLowShelf:  "lowshelf",
	KindNotch:     "notch",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var (
	// ErrUnsupportedKind is returned by Design for kinds this build cannot realise.
	ErrUnsupportedKind = errors.New("design: unsupported filter kind")
	// ErrInvalidFrequency is returned when freq is not inside (0, nyquist).
	ErrInvalidFrequency = errors.New("design: frequency outside (0, nyquist)")
)

// supported lists the kinds realised by this package. Platforms whose
// primitive lacks a band-reject response leave KindNotch out.
var supported = map[Kind]bool{
	KindAllpass:   true,
	KindPeaking:   true,
	KindHighShelf: true,
	KindLowShelf:  true,
	KindNotch:     true,
}

// Supports reports whether Design can produce coefficients for k.
func Supports(k Kind) bool {
	return supported[k]
}

// Design returns coefficients for the given kind. gainDB is ignored by
// kinds without a gain parameter (allpass, notch); q is ignored by shelves.
func Design(k Kind, freq, q, gainDB, sampleRate float64) (biquad.Coefficients, error) {
	if !Supports(k) {
		return biquad.Coefficients{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
	}
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return biquad.Coefficients{}, fmt.Errorf("%w: %.3f Hz at %.0f Hz", ErrInvalidFrequency, freq, sampleRate)
	}

	switch k {
	case KindAllpass:
		return Allpass(freq, q, sampleRate), nil
	case KindPeaking:
		return Peak(freq, gainDB, q, sampleRate), nil
	case KindHighShelf:
		return HighShelf(freq, gainDB, defaultQ, sampleRate), nil
	case KindLowShelf:
		return LowShelf(freq, gainDB, defaultQ, sampleRate), nil
	case KindNotch:
		return Notch(freq, q, sampleRate), nil
	default:
		return biquad.Coefficients{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, k)
	}
}

// rbj holds the shared intermediates of the Audio EQ Cookbook designs.
type rbj struct {
	cw, alpha float64
}

func prewarp(freq, q, sampleRate float64) (rbj, bool) {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return rbj{}, false
	}
	return rbj{cw: math.Cos(w0), alpha: math.Sin(w0) / (2 * normalizedQ(q))}, true
}

// Notch designs a band-reject section centered at freq with unity gain
// away from the null.
func Notch(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	return normalizeBiquad(1, -2*p.cw, 1, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Allpass designs a unity-magnitude section whose phase turns through -π
// at freq.
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	p, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	return normalizeBiquad(1-p.alpha, -2*p.cw, 1+p.alpha, 1+p.alpha, -2*p.cw, 1-p.alpha)
}

// Peak designs a peaking section with gainDB at freq. A deep negative gain
// approximates a notch.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	p, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}
	a := math.Pow(10, gainDB/40)
	return normalizeBiquad(1+p.alpha*a, -2*p.cw, 1-p.alpha*a, 1+p.alpha/a, -2*p.cw, 1-p.alpha/a)
}

// LowShelf designs a low shelf of gainDB below freq.
func LowShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return shelf(freq, gainDB, q, sampleRate, -1)
}

// HighShelf designs a high shelf of gainDB above freq. q = 1/√2 is shelf
// slope 1, matching the Web Audio highshelf node.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	return shelf(freq, gainDB, q, sampleRate, 1)
}

// shelf evaluates both cookbook shelves; side is +1 for high, -1 for low.
func shelf(freq, gainDB, q, sampleRate, side float64) biquad.Coefficients {
	p, ok := prewarp(freq, q, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * p.alpha
	up := (a + 1) + side*(a-1)*p.cw
	down := (a + 1) - side*(a-1)*p.cw
	tilt := (a - 1) + side*(a+1)*p.cw

	return normalizeBiquad(
		a*(up+beta), -2*side*a*tilt, a*(up-beta),
		down+beta, 2*side*((a-1)-side*(a+1)*p.cw), down-beta,
	)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if !finite(sampleRate) || sampleRate <= 0 || !finite(freq) {
		return 0, false
	}
	if freq <= 0 || freq >= sampleRate/2 {
		return 0, false
	}
	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if !finite(q) || q <= 0 {
		return defaultQ
	}
	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if !finite(a0) || a0 == 0 {
		return biquad.Coefficients{}
	}
	inv := 1 / a0
	return biquad.Coefficients{B0: b0 * inv, B1: b1 * inv, B2: b2 * inv, A1: a1 * inv, A2: a2 * inv}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
