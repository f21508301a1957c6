package synth

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-tinnitus/dsp/core"
	"github.com/cwbudde/algo-tinnitus/dsp/filter/design"
	"github.com/cwbudde/algo-tinnitus/dsp/noise"
)

// NotchMode selects how the notch stage is realised.
type NotchMode int

const (
	// NotchAuto probes the filter primitive when a graph is built.
	NotchAuto NotchMode = iota
	// NotchNative switches between band-reject and allpass responses.
	NotchNative
	// NotchEmulated uses a peaking filter at -40 dB (on) or 0 dB (off).
	NotchEmulated
)

func (m NotchMode) String() string {
	switch m {
	case NotchAuto:
		return "auto"
	case NotchNative:
		return "native"
	case NotchEmulated:
		return "emulated"
	default:
		return "unknown"
	}
}

// ParseNotchMode parses the name returned by NotchMode.String.
func ParseNotchMode(name string) (NotchMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return NotchAuto, nil
	case "native":
		return NotchNative, nil
	case "emulated":
		return NotchEmulated, nil
	default:
		return NotchAuto, fmt.Errorf("synth: unknown notch mode %q", name)
	}
}

const (
	harmonicGain      = 0.15
	beatGain          = 1.0
	emulatedNotchCut  = -40.0
	maxFilterFraction = 0.49
)

// FilterParams describes one biquad stage.
type FilterParams struct {
	Kind   design.Kind
	FreqHz float64
	Q      float64
	GainDB float64
}

// NodeParams are the per-node values of the signal graph. Gains are linear.
type NodeParams struct {
	NoiseType noise.Type

	HighShelf    FilterParams
	BandEmphasis FilterParams
	Notch        FilterParams

	NoiseGain    float64
	NoiseBalance float64
	ToneGain     float64
	ToneBalance  float64
	Pan          float64

	CarrierHz   float64
	CarrierGain float64
	FMRateHz    float64
	FMDepthHz   float64

	Harmonic2Hz   float64
	Harmonic2Gain float64
	Harmonic3Hz   float64
	Harmonic3Gain float64

	BeatHz   float64
	BeatGain float64
}

// Derive converts a settings snapshot into node parameters for a graph
// running at sampleRate with the given (resolved) notch mode. The snapshot
// is clamped first. Filter frequencies are held below 0.49·fs and partials
// at or above Nyquist are muted.
func Derive(s Settings, sampleRate float64, mode NotchMode) NodeParams {
	s = s.Clamp()
	nyquist := sampleRate / 2
	filterMax := maxFilterFraction * sampleRate

	var p NodeParams
	p.NoiseType = s.Noise.Type

	p.HighShelf = FilterParams{
		Kind:   design.KindHighShelf,
		FreqHz: core.Clamp(s.Noise.HighShelfFreqHz, 1, filterMax),
		Q:      shelfQ,
		GainDB: s.Noise.HighShelfGainDB,
	}
	p.BandEmphasis = FilterParams{
		Kind:   design.KindPeaking,
		FreqHz: core.Clamp(s.BandEmphasis.FreqHz, 1, filterMax),
		Q:      s.BandEmphasis.Q,
		GainDB: s.BandEmphasis.GainDB,
	}

	notchOn := s.Noise.NotchEnabled && s.Master.NoiseEnabled
	p.Notch = FilterParams{
		FreqHz: core.Clamp(s.Noise.NotchFreqHz, 1, filterMax),
		Q:      NotchQ(s.Noise.NotchFreqHz, s.Noise.NotchWidthHz),
	}
	switch {
	case mode == NotchEmulated:
		p.Notch.Kind = design.KindPeaking
		if notchOn {
			p.Notch.GainDB = emulatedNotchCut
		}
	case notchOn:
		p.Notch.Kind = design.KindNotch
	default:
		p.Notch.Kind = design.KindAllpass
	}

	if s.Master.NoiseEnabled {
		p.NoiseGain = core.DBToLinear(s.Noise.LevelDB)
	}
	if s.Master.ToneEnabled {
		p.ToneGain = core.DBToLinear(s.Tone.GainDB)
	}
	p.NoiseBalance, p.ToneBalance = Balance(s.Routing.Balance)
	p.Pan = s.Routing.Pan

	f := s.Tone.FreqHz
	p.CarrierHz = f
	p.CarrierGain = partialGain(1, f, nyquist)
	p.FMRateHz = s.Tone.FMFreqHz
	if s.Master.ToneEnabled && s.Tone.FMEnabled {
		p.FMDepthHz = s.Tone.FMDepthHz
	}

	harmonicsOn := s.Master.ToneEnabled && s.Tone.HarmonicsEnabled
	p.Harmonic2Hz = 2 * f
	p.Harmonic3Hz = 3 * f
	if harmonicsOn {
		p.Harmonic2Gain = partialGain(harmonicGain, p.Harmonic2Hz, nyquist)
		p.Harmonic3Gain = partialGain(harmonicGain, p.Harmonic3Hz, nyquist)
	}

	p.BeatHz = f + s.Tone.BeatRateHz
	if s.Master.ToneEnabled && s.Tone.BeatEnabled {
		p.BeatGain = partialGain(beatGain, p.BeatHz, nyquist)
	}

	return p
}

// shelfQ is the slope-1 shelf used by the high shelf stage.
const shelfQ = 0.7071067811865476

func partialGain(gain, freqHz, nyquist float64) float64 {
	if freqHz >= nyquist {
		return 0
	}
	return gain
}
