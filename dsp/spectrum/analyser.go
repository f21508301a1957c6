package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tinnitus/dsp/window"
)

const (
	DefaultFFTSize     = 2048
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0

	minFFTSize = 32
	maxFFTSize = 32768
)

var (
	ErrInvalidFFTSize      = errors.New("spectrum: fft size must be a power of two in [32, 32768]")
	ErrInvalidSmoothing    = errors.New("spectrum: smoothing must be in [0, 1]")
	ErrInvalidDecibelRange = errors.New("spectrum: min decibels must be below max decibels")
)

type analyserConfig struct {
	fftSize   int
	smoothing float64
	minDB     float64
	maxDB     float64
}

// AnalyserOption configures an [Analyser].
type AnalyserOption func(*analyserConfig)

// WithFFTSize sets the analysis frame length.
func WithFFTSize(n int) AnalyserOption {
	return func(c *analyserConfig) { c.fftSize = n }
}

// WithSmoothing sets the per-bin averaging constant. 0 disables smoothing.
func WithSmoothing(tau float64) AnalyserOption {
	return func(c *analyserConfig) { c.smoothing = tau }
}

// WithDecibelRange sets the range mapped onto 0..255 by ByteFrequencyData.
func WithDecibelRange(minDB, maxDB float64) AnalyserOption {
	return func(c *analyserConfig) {
		c.minDB = minDB
		c.maxDB = maxDB
	}
}

// Analyser is a visualization tap over a mono signal. Writers and readers
// may run on different goroutines; all state is guarded by one mutex and
// the audio side uses [Analyser.TryWrite] so it never waits on a reader.
type Analyser struct {
	mu sync.Mutex

	size      int
	smoothing float64
	minDB     float64
	maxDB     float64

	ring  []float64
	write int

	win      []float64
	plan     *algofft.Plan[complex128]
	ordered  []float64
	frame    []float64
	in       []complex128
	out      []complex128
	re       []float64
	im       []float64
	mag      []float64
	smoothed []float64
}

// NewAnalyser creates an analyser with the given options applied to the
// defaults (2048-point frame, smoothing 0.8, -100..-30 dB).
func NewAnalyser(opts ...AnalyserOption) (*Analyser, error) {
	cfg := analyserConfig{
		fftSize:   DefaultFFTSize,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDecibels,
		maxDB:     DefaultMaxDecibels,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := cfg.fftSize
	if n < minFFTSize || n > maxFFTSize || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, n)
	}
	if !(cfg.smoothing >= 0 && cfg.smoothing <= 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSmoothing, cfg.smoothing)
	}
	if !(cfg.minDB < cfg.maxDB) {
		return nil, fmt.Errorf("%w: [%v, %v]", ErrInvalidDecibelRange, cfg.minDB, cfg.maxDB)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: init fft plan: %w", err)
	}

	bins := n / 2
	return &Analyser{
		size:      n,
		smoothing: cfg.smoothing,
		minDB:     cfg.minDB,
		maxDB:     cfg.maxDB,
		ring:      make([]float64, n),
		win:       window.Generate(window.TypeBlackman, n, window.WithPeriodic()),
		plan:      plan,
		ordered:   make([]float64, n),
		frame:     make([]float64, n),
		in:        make([]complex128, n),
		out:       make([]complex128, n),
		re:        make([]float64, bins),
		im:        make([]float64, bins),
		mag:       make([]float64, bins),
		smoothed:  make([]float64, bins),
	}, nil
}

// FFTSize returns the analysis frame length.
func (a *Analyser) FFTSize() int { return a.size }

// FrequencyBinCount returns FFTSize/2.
func (a *Analyser) FrequencyBinCount() int { return a.size / 2 }

// Write appends samples to the analysis ring, blocking while a reader holds
// the lock.
func (a *Analyser) Write(samples []float64) {
	a.mu.Lock()
	a.push(samples)
	a.mu.Unlock()
}

// TryWrite appends samples unless a reader currently holds the lock, in
// which case the block is dropped and false is returned.
func (a *Analyser) TryWrite(samples []float64) bool {
	if !a.mu.TryLock() {
		return false
	}
	a.push(samples)
	a.mu.Unlock()
	return true
}

// Reset clears the sample history and smoothing state.
func (a *Analyser) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	clear(a.ring)
	clear(a.smoothed)
	a.write = 0
}

// FloatFrequencyData analyses the most recent FFTSize samples and writes
// the smoothed magnitude in dB into dst. Silent bins are -Inf. It returns
// the number of bins written.
func (a *Analyser) FloatFrequencyData(dst []float64) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.analyse(); err != nil {
		return 0
	}

	n := min(len(dst), len(a.smoothed))
	for k := 0; k < n; k++ {
		dst[k] = linearToDB(a.smoothed[k])
	}
	return n
}

// ByteFrequencyData is FloatFrequencyData scaled so that the configured
// decibel range maps onto 0..255.
func (a *Analyser) ByteFrequencyData(dst []byte) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.analyse(); err != nil {
		return 0
	}

	scale := 255 / (a.maxDB - a.minDB)
	n := min(len(dst), len(a.smoothed))
	for k := 0; k < n; k++ {
		db := linearToDB(a.smoothed[k])
		v := math.Floor(scale * (db - a.minDB))
		switch {
		case math.IsNaN(v) || v < 0:
			dst[k] = 0
		case v > 255:
			dst[k] = 255
		default:
			dst[k] = byte(v)
		}
	}
	return n
}

func (a *Analyser) push(samples []float64) {
	if len(samples) >= a.size {
		copy(a.ring, samples[len(samples)-a.size:])
		a.write = 0
		return
	}

	for _, s := range samples {
		a.ring[a.write] = s
		a.write++
		if a.write == a.size {
			a.write = 0
		}
	}
}

func (a *Analyser) analyse() error {
	// Oldest sample first.
	n := copy(a.ordered, a.ring[a.write:])
	copy(a.ordered[n:], a.ring[:a.write])

	vecmath.MulBlock(a.frame, a.ordered, a.win)
	for i, s := range a.frame {
		a.in[i] = complex(s, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return err
	}

	inv := 1 / float64(a.size)
	for k := range a.re {
		a.re[k] = real(a.out[k]) * inv
		a.im[k] = imag(a.out[k]) * inv
	}
	vecmath.Magnitude(a.mag, a.re, a.im)

	tau := a.smoothing
	for k, m := range a.mag {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			m = 0
		}
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*m
	}
	return nil
}

func linearToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
