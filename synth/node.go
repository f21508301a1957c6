package synth

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tinnitus/dsp/core"
	"github.com/cwbudde/algo-tinnitus/dsp/filter/biquad"
	"github.com/cwbudde/algo-tinnitus/dsp/filter/design"
	"github.com/cwbudde/algo-tinnitus/dsp/noise"
)

// node processes one mono block from its input port into its output port.
// Sources ignore in. Blocks never exceed one render quantum.
type node interface {
	process(in, out []float64)
}

// edge is a fixed connection from src's output port into a buffer.
type edge struct {
	node node
	in   []float64
	out  []float64
}

type noiseSource struct {
	gen *noise.Generator
}

func (n *noiseSource) process(_, out []float64) {
	n.gen.Fill(out)
}

// biquadNode is a filter stage with k-rate coefficients: frequency, Q and
// gain are read once per block and the section's delay line survives every
// redesign.
type biquadNode struct {
	section    *biquad.Section
	sampleRate float64
	kind       design.Kind

	freqHz Param
	q      Param
	gainDB Param

	dirty bool
}

func newBiquadNode(kind design.Kind, sampleRate float64) *biquadNode {
	return &biquadNode{
		section:    biquad.NewSection(biquad.Identity()),
		sampleRate: sampleRate,
		kind:       kind,
	}
}

func (b *biquadNode) apply(p FilterParams, frames int) {
	b.kind = p.Kind
	b.freqHz.RampTo(p.FreqHz, frames)
	b.q.RampTo(p.Q, frames)
	b.gainDB.RampTo(p.GainDB, frames)
	b.dirty = true
}

func (b *biquadNode) params() FilterParams {
	return FilterParams{
		Kind:   b.kind,
		FreqHz: b.freqHz.Value(),
		Q:      b.q.Value(),
		GainDB: b.gainDB.Value(),
	}
}

func (b *biquadNode) ramping() bool {
	return b.freqHz.Ramping() || b.q.Ramping() || b.gainDB.Ramping()
}

func (b *biquadNode) redesign() {
	c, err := design.Design(b.kind, b.freqHz.Value(), b.q.Value(), b.gainDB.Value(), b.sampleRate)
	if err != nil {
		return
	}
	b.section.SetCoefficients(c)
}

func (b *biquadNode) process(in, out []float64) {
	ramping := b.ramping()
	if b.dirty || ramping {
		b.redesign()
	}

	copy(out, in)
	b.section.ProcessBlock(out)

	n := len(in)
	b.freqHz.Advance(n)
	b.q.Advance(n)
	b.gainDB.Advance(n)
	// A ramp that finished inside this block still needs its end value.
	b.dirty = ramping
}

// gainNode multiplies by an a-rate gain.
type gainNode struct {
	gain  Param
	curve []float64
}

func newGainNode() *gainNode {
	return &gainNode{curve: make([]float64, core.RenderQuantum)}
}

func (g *gainNode) process(in, out []float64) {
	curve := g.curve[:len(in)]
	g.gain.Fill(curve)
	vecmath.MulBlock(out, in, curve)
}

// panner places a mono signal in the stereo field with the equal-power law.
type panner struct {
	pan Param
}

func (p *panner) process(in, left, right []float64) {
	for i, x := range in {
		theta := (core.Clamp(p.pan.Next(), -1, 1) + 1) * math.Pi / 4
		left[i] = x * math.Cos(theta)
		right[i] = x * math.Sin(theta)
	}
}
