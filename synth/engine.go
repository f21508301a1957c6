package synth

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tinnitus/dsp/spectrum"
)

// Driver opens a real-time output stream. The stream calls pull from its
// own audio goroutine to obtain planar stereo frames; pull must not be
// called after Pause returns or before Play.
type Driver interface {
	Open(ctx context.Context, sampleRate int, pull func(left, right []float64)) (Stream, error)
}

// Stream is an open real-time output.
type Stream interface {
	Play() error
	Pause() error
	Close() error
}

type engineConfig struct {
	sampleRate int
	seed       int64
	notchMode  NotchMode
	fftSize    int
	smoothing  float64
	logger     *logrus.Entry
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

// WithSampleRate sets the stream sample rate (default 44100).
func WithSampleRate(sampleRate int) EngineOption {
	return func(c *engineConfig) {
		if sampleRate > 0 {
			c.sampleRate = sampleRate
		}
	}
}

// WithEngineSeed seeds the live noise source.
func WithEngineSeed(seed int64) EngineOption {
	return func(c *engineConfig) { c.seed = seed }
}

// WithEngineNotchMode forces the notch realisation of the live graph.
func WithEngineNotchMode(m NotchMode) EngineOption {
	return func(c *engineConfig) { c.notchMode = m }
}

// WithAnalyserSettings sets the visualization frame length and smoothing.
func WithAnalyserSettings(fftSize int, smoothing float64) EngineOption {
	return func(c *engineConfig) {
		c.fftSize = fftSize
		c.smoothing = smoothing
	}
}

// WithLogger sets the log entry used for engine events.
func WithLogger(l *logrus.Entry) EngineOption {
	return func(c *engineConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Engine plays a Graph through a Driver. Update may be called from any
// goroutine; the audio goroutine picks up the newest snapshot at the start
// of each pulled block and ramps to it.
type Engine struct {
	driver   Driver
	cfg      engineConfig
	log      *logrus.Entry
	analyser *spectrum.Analyser

	pending  atomic.Pointer[Settings]
	snapshot atomic.Pointer[Settings]

	mu        sync.Mutex
	stream    Stream
	graph     *Graph
	emulated  bool
	running   bool
	closed    bool
	warnNotch sync.Once
}

// NewEngine creates a stopped engine that will start with initial.
func NewEngine(driver Driver, initial Settings, opts ...EngineOption) (*Engine, error) {
	cfg := engineConfig{
		sampleRate: 44100,
		seed:       1,
		fftSize:    1024,
		smoothing:  0.85,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	a, err := spectrum.NewAnalyser(spectrum.WithFFTSize(cfg.fftSize), spectrum.WithSmoothing(cfg.smoothing))
	if err != nil {
		return nil, fmt.Errorf("synth: analyser: %w", err)
	}

	e := &Engine{
		driver:   driver,
		cfg:      cfg,
		log:      cfg.logger,
		analyser: a,
	}
	e.emulated = e.resolveNotchMode() == NotchEmulated
	e.Update(initial)
	e.pending.Store(nil)

	return e, nil
}

func (e *Engine) resolveNotchMode() NotchMode {
	switch e.cfg.notchMode {
	case NotchNative, NotchEmulated:
		return e.cfg.notchMode
	default:
		return probeNotch(float64(e.cfg.sampleRate))
	}
}

// Start opens the stream on first use and begins playback. A failed start
// releases everything it created and leaves the engine stopped; calling
// Start again retries. Starting a running engine is a no-op.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.running {
		return nil
	}
	if e.driver == nil {
		return ErrNoAudioDriver
	}

	if e.stream == nil {
		stream, err := e.open(ctx)
		if err != nil {
			e.log.WithFields(logrus.Fields{
				"function": "Engine.Start",
				"error":    err.Error(),
			}).Error("Audio engine failed to start")
			return err
		}
		e.stream = stream
	}

	if err := e.stream.Play(); err != nil {
		_ = e.stream.Close()
		e.stream = nil
		e.graph = nil
		e.log.WithFields(logrus.Fields{
			"function": "Engine.Start",
			"error":    err.Error(),
		}).Error("Audio playback failed to start")
		return fmt.Errorf("synth: start playback: %w", err)
	}

	e.running = true
	e.log.WithFields(logrus.Fields{
		"function":    "Engine.Start",
		"sample_rate": e.cfg.sampleRate,
		"notch_mode":  e.modeName(),
	}).Info("Audio engine started")

	return nil
}

// open builds a fresh graph and opens the driver stream around it.
func (e *Engine) open(ctx context.Context) (Stream, error) {
	mode := NotchNative
	if e.emulated {
		mode = NotchEmulated
	}

	g, err := NewGraph(float64(e.cfg.sampleRate),
		WithSeed(e.cfg.seed),
		WithNotchMode(mode),
		WithAnalyser(e.analyser),
	)
	if err != nil {
		return nil, fmt.Errorf("synth: build graph: %w", err)
	}

	ctrl := NewController(g)
	e.pending.Store(nil)
	ctrl.Apply(e.Settings(), Immediate)

	if g.NotchEmulated() {
		e.warnNotch.Do(func() {
			e.log.WithFields(logrus.Fields{
				"function": "Engine.Start",
			}).Warn("Native band-reject filter unavailable, emulating notch with a -40 dB peaking filter")
		})
	}

	stream, err := e.driver.Open(ctx, e.cfg.sampleRate, func(left, right []float64) {
		if s := e.pending.Swap(nil); s != nil {
			ctrl.Apply(*s, Smoothed)
		}
		g.Process(left, right)
	})
	if err != nil {
		return nil, fmt.Errorf("synth: open audio stream: %w", err)
	}
	if stream == nil {
		return nil, fmt.Errorf("synth: open audio stream: %w", ErrNoAudioDriver)
	}
	e.graph = g

	return stream, nil
}

// Stop pauses playback. The graph and its state are kept, so a later Start
// resumes the same signal. Stopping a stopped engine is a no-op.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}
	e.running = false

	if err := e.stream.Pause(); err != nil {
		return fmt.Errorf("synth: pause playback: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"function": "Engine.Stop",
	}).Info("Audio engine stopped")

	return nil
}

// Close releases the stream. A closed engine cannot be started again.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.running = false

	if e.stream == nil {
		return nil
	}
	err := e.stream.Close()
	e.stream = nil
	e.graph = nil
	if err != nil {
		return fmt.Errorf("synth: close stream: %w", err)
	}
	return nil
}

// Update hands a new snapshot to the audio goroutine. Only the newest
// snapshot since the last block is applied.
func (e *Engine) Update(s Settings) {
	cp := s
	e.snapshot.Store(&cp)
	e.pending.Store(&cp)
}

// Settings returns the most recent snapshot passed to Update.
func (e *Engine) Settings() Settings {
	if s := e.snapshot.Load(); s != nil {
		return *s
	}
	return DefaultSettings()
}

// Running reports whether the engine is playing.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// NotchEmulated reports whether the live graph realises the notch with a
// peaking filter.
func (e *Engine) NotchEmulated() bool { return e.emulated }

func (e *Engine) modeName() string {
	if e.emulated {
		return NotchEmulated.String()
	}
	return NotchNative.String()
}

// FrequencyBinCount returns the number of analyser bins.
func (e *Engine) FrequencyBinCount() int { return e.analyser.FrequencyBinCount() }

// FloatFrequencyData writes the analyser spectrum in dB into dst.
func (e *Engine) FloatFrequencyData(dst []float64) int {
	return e.analyser.FloatFrequencyData(dst)
}

// ByteFrequencyData writes the analyser spectrum scaled to 0..255.
func (e *Engine) ByteFrequencyData(dst []byte) int {
	return e.analyser.ByteFrequencyData(dst)
}
