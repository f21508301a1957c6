package biquad

// denormal is the state magnitude below which the delay line is zeroed at
// block end.
const denormal = 1e-30

// Section is one biquad in transposed direct form II.
type Section struct {
	Coefficients

	s1, s2 float64
}

// NewSection returns a section with cleared state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// SetCoefficients swaps the transfer function and keeps the delay line.
// Non-finite sets are dropped so a failed design leaves the running
// filter untouched.
func (s *Section) SetCoefficients(c Coefficients) {
	if c.IsFinite() {
		s.Coefficients = c
	}
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.s1
	s.s1 = s.B1*x - s.A1*y + s.s2
	s.s2 = s.B2*x - s.A2*y
	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	c := s.Coefficients
	s1, s2 := s.s1, s.s2
	for i, x := range buf {
		y := c.B0*x + s1
		s1 = c.B1*x - c.A1*y + s2
		s2 = c.B2*x - c.A2*y
		buf[i] = y
	}
	s.s1, s.s2 = flushState(s1), flushState(s2)
}

// Reset clears the delay line.
func (s *Section) Reset() {
	s.s1, s.s2 = 0, 0
}

func flushState(v float64) float64 {
	if v > -denormal && v < denormal {
		return 0
	}
	return v
}
