package synth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tinnitus/dsp/core"
	"github.com/cwbudde/algo-tinnitus/dsp/filter/design"
	"github.com/cwbudde/algo-tinnitus/dsp/noise"
	"github.com/cwbudde/algo-tinnitus/dsp/spectrum"
)

type graphConfig struct {
	seed      int64
	notchMode NotchMode
	analyser  *spectrum.Analyser
}

// GraphOption configures a Graph.
type GraphOption func(*graphConfig)

// WithSeed seeds the noise source.
func WithSeed(seed int64) GraphOption {
	return func(c *graphConfig) { c.seed = seed }
}

// WithNotchMode forces the notch realisation instead of probing.
func WithNotchMode(m NotchMode) GraphOption {
	return func(c *graphConfig) { c.notchMode = m }
}

// WithAnalyser attaches a visualization tap fed with the mono downmix of
// the panner output. The graph never blocks on it.
func WithAnalyser(a *spectrum.Analyser) GraphOption {
	return func(c *graphConfig) { c.analyser = a }
}

// Graph is the fixed synthesis topology:
//
//	noise -> highShelf -> bandEmphasis -> notch -> noiseGain -> noiseBalance -+
//	                                                                          +-> panner -> out
//	tone ---------------------------------------> toneGain  -> toneBalance  -+
//
// A Graph is owned by one goroutine at a time.
type Graph struct {
	sampleRate float64
	notchMode  NotchMode

	noise        *noiseSource
	highShelf    *biquadNode
	bandEmphasis *biquadNode
	notch        *biquadNode
	noiseGain    *gainNode
	noiseBalance *gainNode

	tone        *toneGenerator
	toneGain    *gainNode
	toneBalance *gainNode

	panner   *panner
	analyser *spectrum.Analyser

	noisePath []edge
	tonePath  []edge
	noiseOut  []float64
	toneOut   []float64
	bus       []float64
	tap       []float64

	// position inside the current render quantum
	pos int
}

// NewGraph builds a graph at sampleRate. All gains start at zero until
// parameters are applied through a Controller.
func NewGraph(sampleRate float64, opts ...GraphOption) (*Graph, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	cfg := graphConfig{seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	mode := cfg.notchMode
	if mode != NotchNative && mode != NotchEmulated {
		mode = probeNotch(sampleRate)
	}

	tone, err := newToneGenerator(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("synth: tone generator: %w", err)
	}

	g := &Graph{
		sampleRate:   sampleRate,
		notchMode:    mode,
		noise:        &noiseSource{gen: noise.New(noise.WithSeed(cfg.seed))},
		highShelf:    newBiquadNode(design.KindHighShelf, sampleRate),
		bandEmphasis: newBiquadNode(design.KindPeaking, sampleRate),
		notch:        newBiquadNode(design.KindAllpass, sampleRate),
		noiseGain:    newGainNode(),
		noiseBalance: newGainNode(),
		tone:         tone,
		toneGain:     newGainNode(),
		toneBalance:  newGainNode(),
		panner:       &panner{},
		analyser:     cfg.analyser,
		bus:          make([]float64, core.RenderQuantum),
		tap:          make([]float64, core.RenderQuantum),
	}
	g.wire()

	return g, nil
}

func (g *Graph) wire() {
	port := func() []float64 { return make([]float64, core.RenderQuantum) }

	src, shelf, band, notch, gain, bal := port(), port(), port(), port(), port(), port()
	g.noisePath = []edge{
		{g.noise, nil, src},
		{g.highShelf, src, shelf},
		{g.bandEmphasis, shelf, band},
		{g.notch, band, notch},
		{g.noiseGain, notch, gain},
		{g.noiseBalance, gain, bal},
	}
	g.noiseOut = bal

	tsrc, tgain, tbal := port(), port(), port()
	g.tonePath = []edge{
		{g.tone, nil, tsrc},
		{g.toneGain, tsrc, tgain},
		{g.toneBalance, tgain, tbal},
	}
	g.toneOut = tbal
}

// probeNotch reports NotchNative when the filter primitive realises a
// stable band-reject response with a deep null at its center.
func probeNotch(sampleRate float64) NotchMode {
	if !design.Supports(design.KindNotch) {
		return NotchEmulated
	}

	f := math.Min(1000, 0.25*sampleRate)
	c, err := design.Design(design.KindNotch, f, 1, 0, sampleRate)
	if err != nil || !c.IsStable() {
		return NotchEmulated
	}
	if c.Magnitude(f, sampleRate) > 1e-3 {
		return NotchEmulated
	}
	return NotchNative
}

// SampleRate returns the graph sample rate.
func (g *Graph) SampleRate() float64 { return g.sampleRate }

// NotchMode returns the resolved notch realisation.
func (g *Graph) NotchMode() NotchMode { return g.notchMode }

// NotchEmulated reports whether the notch is emulated with a peaking filter.
func (g *Graph) NotchEmulated() bool { return g.notchMode == NotchEmulated }

// Params returns the current value of every node parameter. During a ramp
// these are the in-flight values, not the targets.
func (g *Graph) Params() NodeParams {
	p := NodeParams{
		NoiseType:    g.noise.gen.Type(),
		HighShelf:    g.highShelf.params(),
		BandEmphasis: g.bandEmphasis.params(),
		Notch:        g.notch.params(),
		NoiseGain:    g.noiseGain.gain.Value(),
		NoiseBalance: g.noiseBalance.gain.Value(),
		ToneGain:     g.toneGain.gain.Value(),
		ToneBalance:  g.toneBalance.gain.Value(),
		Pan:          g.panner.pan.Value(),
	}
	g.tone.read(&p)
	return p
}

// apply sets every node towards p over frames samples. Discrete values
// (noise type, filter kinds) switch at once.
func (g *Graph) apply(p NodeParams, frames int) {
	g.noise.gen.SetType(p.NoiseType)
	g.highShelf.apply(p.HighShelf, frames)
	g.bandEmphasis.apply(p.BandEmphasis, frames)
	g.notch.apply(p.Notch, frames)
	g.noiseGain.gain.RampTo(p.NoiseGain, frames)
	g.noiseBalance.gain.RampTo(p.NoiseBalance, frames)
	g.toneGain.gain.RampTo(p.ToneGain, frames)
	g.toneBalance.gain.RampTo(p.ToneBalance, frames)
	g.panner.pan.RampTo(p.Pan, frames)
	g.tone.apply(p, frames)
}

// Process renders len(left) stereo frames. left and right must have the
// same length. Output samples are limited to [-1, 1].
func (g *Graph) Process(left, right []float64) {
	if len(right) < len(left) {
		left = left[:len(right)]
	}

	for off := 0; off < len(left); {
		n := min(core.RenderQuantum-g.pos, len(left)-off)
		g.processChunk(left[off:off+n], right[off:off+n])
		off += n
		g.pos = (g.pos + n) % core.RenderQuantum
	}
}

func (g *Graph) processChunk(left, right []float64) {
	n := len(left)

	for _, e := range g.noisePath {
		e.node.process(slice(e.in, n), e.out[:n])
	}
	for _, e := range g.tonePath {
		e.node.process(slice(e.in, n), e.out[:n])
	}

	bus := g.bus[:n]
	for i := range bus {
		bus[i] = g.noiseOut[i] + g.toneOut[i]
	}

	g.panner.process(bus, left, right)

	if g.analyser != nil {
		tap := g.tap[:n]
		for i := range tap {
			tap[i] = 0.5 * (left[i] + right[i])
		}
		g.analyser.TryWrite(tap)
	}

	for i := range left {
		left[i] = core.Clamp(left[i], -1, 1)
		right[i] = core.Clamp(right[i], -1, 1)
	}
}

func slice(buf []float64, n int) []float64 {
	if buf == nil {
		return nil
	}
	return buf[:n]
}
