package noise

import (
	"math/rand"

	"github.com/cwbudde/algo-tinnitus/dsp/core"
)

const (
	brownLeak = 0.02
	brownGain = 3.5
)

// Generator is a stateful colored-noise source. It is not safe for
// concurrent use; one goroutine owns it while producing samples.
type Generator struct {
	typ  Type
	seed int64
	rng  *rand.Rand

	blueLast float64

	violetLastIn  float64
	violetLastOut float64

	brownLast float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithType sets the initial noise color. Invalid types are ignored.
func WithType(t Type) Option {
	return func(g *Generator) {
		if t.Valid() {
			g.typ = t
		}
	}
}

// New creates a white-noise generator with seed 1 unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{typ: White, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.rng = rand.New(rand.NewSource(g.seed))
	return g
}

// Type returns the active color.
func (g *Generator) Type() Type { return g.typ }

// Seed returns the seed the generator was created or last reset with.
func (g *Generator) Seed() int64 { return g.seed }

// SetType switches the active color. The recurrence memory of every color
// is kept, so the previous color resumes where it left off. Invalid types
// are ignored.
func (g *Generator) SetType(t Type) {
	if t.Valid() {
		g.typ = t
	}
}

// Reset reseeds the random source and clears every color's memory.
func (g *Generator) Reset(seed int64) {
	g.seed = seed
	g.rng.Seed(seed)
	g.blueLast = 0
	g.violetLastIn = 0
	g.violetLastOut = 0
	g.brownLast = 0
}

// Next returns one sample of the active color.
func (g *Generator) Next() float64 {
	w := g.rng.Float64()*2 - 1

	switch g.typ {
	case Blue:
		out := (w - g.blueLast) * 0.5
		g.blueLast = w
		return out
	case Violet:
		b := w - g.violetLastIn
		out := (b - g.violetLastOut) * 0.5
		g.violetLastOut = b
		g.violetLastIn = w
		// Second difference spans [-2, 2].
		return core.Clamp(out, -1, 1)
	case Brown:
		g.brownLast = (g.brownLast + brownLeak*w) / (1 + brownLeak)
		return core.Clamp(g.brownLast*brownGain, -1, 1)
	default:
		return w
	}
}

// Fill writes len(buf) consecutive samples into buf.
func (g *Generator) Fill(buf []float64) {
	for i := range buf {
		buf[i] = g.Next()
	}
}
