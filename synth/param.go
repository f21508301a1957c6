package synth

// Param is a sample-clocked parameter that either holds a value or ramps
// linearly towards a target over a fixed number of frames.
type Param struct {
	value     float64
	target    float64
	step      float64
	remaining int
}

// Set jumps to v and cancels any ramp.
func (p *Param) Set(v float64) {
	p.value = v
	p.target = v
	p.step = 0
	p.remaining = 0
}

// RampTo starts a linear ramp from the current value to v that completes
// after frames samples. frames <= 0 behaves like Set.
func (p *Param) RampTo(v float64, frames int) {
	if frames <= 0 || v == p.value {
		p.Set(v)
		return
	}
	p.target = v
	p.step = (v - p.value) / float64(frames)
	p.remaining = frames
}

// Value returns the current value.
func (p *Param) Value() float64 { return p.value }

// Target returns the value the parameter is heading to.
func (p *Param) Target() float64 { return p.target }

// Ramping reports whether a ramp is in progress.
func (p *Param) Ramping() bool { return p.remaining > 0 }

// Next returns the value for the current sample and advances one frame.
func (p *Param) Next() float64 {
	v := p.value
	p.Advance(1)
	return v
}

// Advance moves the ramp forward n frames.
func (p *Param) Advance(n int) {
	if p.remaining == 0 || n <= 0 {
		return
	}
	if n >= p.remaining {
		p.value = p.target
		p.step = 0
		p.remaining = 0
		return
	}
	p.value += p.step * float64(n)
	p.remaining -= n
}

// Fill writes the per-sample values of the next len(dst) frames.
func (p *Param) Fill(dst []float64) {
	if p.remaining == 0 {
		for i := range dst {
			dst[i] = p.value
		}
		return
	}
	for i := range dst {
		dst[i] = p.Next()
	}
}
