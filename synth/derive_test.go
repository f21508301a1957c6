package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/algo-tinnitus/dsp/filter/design"
)

func TestDerive_MasterGating(t *testing.T) {
	s := DefaultSettings()
	s.Noise.LevelDB = 0
	s.Noise.NotchEnabled = true
	s.Tone.FMEnabled = true
	s.Tone.HarmonicsEnabled = true
	s.Tone.BeatEnabled = true

	p := Derive(s, 44100, NotchNative)
	assert.InDelta(t, 1.0, p.NoiseGain, 1e-12)
	assert.Equal(t, design.KindNotch, p.Notch.Kind)

	s.Master.NoiseEnabled = false
	p = Derive(s, 44100, NotchNative)
	assert.Equal(t, 0.0, p.NoiseGain)
	assert.Equal(t, design.KindAllpass, p.Notch.Kind, "notch follows the noise master switch")

	s.Master.ToneEnabled = false
	p = Derive(s, 44100, NotchNative)
	assert.Equal(t, 0.0, p.ToneGain)
	assert.Equal(t, 0.0, p.FMDepthHz)
	assert.Equal(t, 0.0, p.Harmonic2Gain)
	assert.Equal(t, 0.0, p.Harmonic3Gain)
	assert.Equal(t, 0.0, p.BeatGain)
}

func TestDerive_TonePartials(t *testing.T) {
	s := DefaultSettings()
	s.Tone.FreqHz = 5000
	s.Tone.GainDB = -20
	s.Tone.FMEnabled = true
	s.Tone.FMFreqHz = 12
	s.Tone.FMDepthHz = 80
	s.Tone.BeatEnabled = true
	s.Tone.BeatRateHz = 4

	p := Derive(s, 44100, NotchNative)
	assert.InDelta(t, 0.1, p.ToneGain, 1e-12)
	assert.Equal(t, 5000.0, p.CarrierHz)
	assert.Equal(t, 1.0, p.CarrierGain)
	assert.Equal(t, 12.0, p.FMRateHz)
	assert.Equal(t, 80.0, p.FMDepthHz)
	assert.Equal(t, 10000.0, p.Harmonic2Hz)
	assert.Equal(t, 15000.0, p.Harmonic3Hz)
	assert.Equal(t, 0.0, p.Harmonic2Gain, "harmonics disabled")
	assert.Equal(t, 5004.0, p.BeatHz)
	assert.Equal(t, 1.0, p.BeatGain)

	s.Tone.HarmonicsEnabled = true
	p = Derive(s, 44100, NotchNative)
	assert.Equal(t, 0.15, p.Harmonic2Gain)
	assert.Equal(t, 0.15, p.Harmonic3Gain)

	s.Tone.FMEnabled = false
	p = Derive(s, 44100, NotchNative)
	assert.Equal(t, 0.0, p.FMDepthHz)
	assert.Equal(t, 12.0, p.FMRateHz, "the modulator keeps running")
}

func TestDerive_PartialsAboveNyquistAreMuted(t *testing.T) {
	s := DefaultSettings()
	s.Tone.FreqHz = 6500
	s.Tone.HarmonicsEnabled = true

	p := Derive(s, 16000, NotchNative)
	assert.Equal(t, 1.0, p.CarrierGain)
	assert.Equal(t, 0.0, p.Harmonic2Gain, "13 kHz at 16 kHz sampling")
	assert.Equal(t, 0.0, p.Harmonic3Gain)

	p = Derive(s, 48000, NotchNative)
	assert.Equal(t, 0.15, p.Harmonic2Gain)
	assert.Equal(t, 0.15, p.Harmonic3Gain, "19.5 kHz at 48 kHz sampling")
}

func TestDerive_NotchModes(t *testing.T) {
	s := DefaultSettings()
	s.Noise.NotchFreqHz = 4000
	s.Noise.NotchWidthHz = 500

	tests := []struct {
		name   string
		on     bool
		mode   NotchMode
		kind   design.Kind
		gainDB float64
	}{
		{"native on", true, NotchNative, design.KindNotch, 0},
		{"native off", false, NotchNative, design.KindAllpass, 0},
		{"emulated on", true, NotchEmulated, design.KindPeaking, -40},
		{"emulated off", false, NotchEmulated, design.KindPeaking, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.Noise.NotchEnabled = tt.on
			p := Derive(s, 44100, tt.mode)
			assert.Equal(t, tt.kind, p.Notch.Kind)
			assert.Equal(t, tt.gainDB, p.Notch.GainDB)
			assert.InDelta(t, 8.0, p.Notch.Q, 1e-12)
			assert.Equal(t, 4000.0, p.Notch.FreqHz)
		})
	}
}

func TestDerive_ClampsInputs(t *testing.T) {
	s := DefaultSettings()
	s.Noise.NotchWidthHz = 0

	p := Derive(s, 44100, NotchNative)
	assert.InDelta(t, 20.0, p.Notch.Q, 1e-12, "width is clamped to 200 Hz before Q")

	// 8 kHz emphasis exceeds 0.49·fs at 8 kHz sampling.
	p = Derive(DefaultSettings(), 8000, NotchNative)
	assert.InDelta(t, 3920.0, p.BandEmphasis.FreqHz, 1e-9)
	assert.InDelta(t, 3920.0, p.HighShelf.FreqHz, 1e-9, "4 kHz shelf at 8 kHz sampling")
}

func TestDerive_Balance(t *testing.T) {
	s := DefaultSettings()
	s.Routing.Balance = -1
	s.Routing.Pan = 0.5

	p := Derive(s, 44100, NotchNative)
	assert.InDelta(t, 1.0, p.NoiseBalance, 1e-12)
	assert.InDelta(t, 0.0, p.ToneBalance, 1e-12)
	assert.Equal(t, 0.5, p.Pan)
}

func TestParseNotchMode(t *testing.T) {
	for _, m := range []NotchMode{NotchAuto, NotchNative, NotchEmulated} {
		got, err := ParseNotchMode(m.String())
		assert.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseNotchMode(" Emulated ")
	assert.NoError(t, err)
	assert.Equal(t, NotchEmulated, got)

	_, err = ParseNotchMode("biquad")
	assert.Error(t, err)
}
