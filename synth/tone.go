package synth

import "github.com/cwbudde/algo-tinnitus/dsp/osc"

// toneGenerator sums the carrier, its harmonics and the beat partial.
// All oscillators free-run; partials are switched by their gain params so
// re-enabling one resumes at its running phase.
type toneGenerator struct {
	carrier *osc.Sine
	fm      *osc.Sine
	h2      *osc.Sine
	h3      *osc.Sine
	beat    *osc.Sine

	carrierHz   Param
	carrierGain Param
	fmRateHz    Param
	fmDepthHz   Param
	h2Hz        Param
	h2Gain      Param
	h3Hz        Param
	h3Gain      Param
	beatHz      Param
	beatGain    Param
}

func newToneGenerator(sampleRate float64) (*toneGenerator, error) {
	t := &toneGenerator{}
	for _, o := range []**osc.Sine{&t.carrier, &t.fm, &t.h2, &t.h3, &t.beat} {
		s, err := osc.NewSine(sampleRate)
		if err != nil {
			return nil, err
		}
		*o = s
	}
	return t, nil
}

// process implements node. The tone generator is a source: in is ignored.
func (t *toneGenerator) process(_, out []float64) {
	for i := range out {
		fm := t.fm.Next(t.fmRateHz.Next()) * t.fmDepthHz.Next()
		v := t.carrierGain.Next() * t.carrier.Next(t.carrierHz.Next()+fm)
		v += t.h2Gain.Next() * t.h2.Next(t.h2Hz.Next())
		v += t.h3Gain.Next() * t.h3.Next(t.h3Hz.Next())
		v += t.beatGain.Next() * t.beat.Next(t.beatHz.Next())
		out[i] = v
	}
}

func (t *toneGenerator) apply(p NodeParams, frames int) {
	t.carrierHz.RampTo(p.CarrierHz, frames)
	t.carrierGain.RampTo(p.CarrierGain, frames)
	t.fmRateHz.RampTo(p.FMRateHz, frames)
	t.fmDepthHz.RampTo(p.FMDepthHz, frames)
	t.h2Hz.RampTo(p.Harmonic2Hz, frames)
	t.h2Gain.RampTo(p.Harmonic2Gain, frames)
	t.h3Hz.RampTo(p.Harmonic3Hz, frames)
	t.h3Gain.RampTo(p.Harmonic3Gain, frames)
	t.beatHz.RampTo(p.BeatHz, frames)
	t.beatGain.RampTo(p.BeatGain, frames)
}

func (t *toneGenerator) read(p *NodeParams) {
	p.CarrierHz = t.carrierHz.Value()
	p.CarrierGain = t.carrierGain.Value()
	p.FMRateHz = t.fmRateHz.Value()
	p.FMDepthHz = t.fmDepthHz.Value()
	p.Harmonic2Hz = t.h2Hz.Value()
	p.Harmonic2Gain = t.h2Gain.Value()
	p.Harmonic3Hz = t.h3Hz.Value()
	p.Harmonic3Gain = t.h3Gain.Value()
	p.BeatHz = t.beatHz.Value()
	p.BeatGain = t.beatGain.Value()
}
