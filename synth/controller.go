package synth

import (
	"math"
	"time"
)

// Mode selects how a Controller moves the graph to new parameters.
type Mode int

const (
	// Immediate jumps every parameter to its target.
	Immediate Mode = iota
	// Smoothed ramps every continuous parameter linearly over RampDuration.
	Smoothed
)

func (m Mode) String() string {
	if m == Smoothed {
		return "smoothed"
	}
	return "immediate"
}

// RampDuration is the length of a Smoothed transition.
const RampDuration = 50 * time.Millisecond

// Controller applies settings snapshots to a graph. It must be used from
// the goroutine that owns the graph.
type Controller struct {
	graph      *Graph
	rampFrames int
	last       Settings
}

// NewController returns a controller for g.
func NewController(g *Graph) *Controller {
	frames := int(math.Round(RampDuration.Seconds() * g.SampleRate()))
	return &Controller{graph: g, rampFrames: max(frames, 1)}
}

// Apply clamps s, derives node parameters and moves the graph to them.
// It returns the derived target parameters.
func (c *Controller) Apply(s Settings, mode Mode) NodeParams {
	s = s.Clamp()
	p := Derive(s, c.graph.SampleRate(), c.graph.NotchMode())

	frames := 0
	if mode == Smoothed {
		frames = c.rampFrames
	}
	c.graph.apply(p, frames)
	c.last = s

	return p
}

// Settings returns the last applied (clamped) snapshot.
func (c *Controller) Settings() Settings { return c.last }

// RampFrames returns the Smoothed ramp length in frames.
func (c *Controller) RampFrames() int { return c.rampFrames }
