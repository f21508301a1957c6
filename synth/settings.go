package synth

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/cwbudde/algo-tinnitus/dsp/core"
	"github.com/cwbudde/algo-tinnitus/dsp/noise"
)

// NoiseParams controls the noise path.
type NoiseParams struct {
	Type            noise.Type `json:"type"`
	LevelDB         float64    `json:"level"`
	HighShelfGainDB float64    `json:"highShelfGain"`
	HighShelfFreqHz float64    `json:"highShelfFreq"`
	NotchEnabled    bool       `json:"isNotchEnabled"`
	NotchFreqHz     float64    `json:"notchFreq"`
	NotchWidthHz    float64    `json:"notchWidth"`
}

// ToneParams controls the tone path.
type ToneParams struct {
	FreqHz           float64 `json:"frequency"`
	GainDB           float64 `json:"gain"`
	FMEnabled        bool    `json:"isFmEnabled"`
	FMFreqHz         float64 `json:"fmFreq"`
	FMDepthHz        float64 `json:"fmDepth"`
	HarmonicsEnabled bool    `json:"areHarmonicsEnabled"`
	BeatEnabled      bool    `json:"isBeatToneEnabled"`
	BeatRateHz       float64 `json:"beatRate"`
}

// BandEmphasisParams controls the peaking filter on the noise path.
type BandEmphasisParams struct {
	FreqHz float64 `json:"frequency"`
	Q      float64 `json:"q"`
	GainDB float64 `json:"gain"`
}

// RoutingParams controls stereo position and the noise/tone crossfade.
// Balance -1 is all noise, +1 all tone.
type RoutingParams struct {
	Pan     float64 `json:"pan"`
	Balance float64 `json:"balance"`
}

// MasterParams switches each source on or off.
type MasterParams struct {
	NoiseEnabled bool `json:"isNoiseEnabled"`
	ToneEnabled  bool `json:"isToneEnabled"`
}

// Settings is a complete parameter snapshot. It holds no references, so
// assignment copies it.
type Settings struct {
	Noise        NoiseParams        `json:"noise"`
	Tone         ToneParams         `json:"tone"`
	BandEmphasis BandEmphasisParams `json:"bandEmphasis"`
	Routing      RoutingParams      `json:"routing"`
	Master       MasterParams       `json:"master"`
}

// Parameter ranges.
const (
	MinNoiseLevelDB = -60.0
	MaxNoiseLevelDB = 0.0

	MinShelfGainDB = -12.0
	MaxShelfGainDB = 12.0
	MinShelfFreqHz = 500.0
	MaxShelfFreqHz = 8000.0

	MinNotchFreqHz  = 2000.0
	MaxNotchFreqHz  = 8000.0
	MinNotchWidthHz = 200.0
	MaxNotchWidthHz = 1000.0

	MinToneFreqHz = 2000.0
	MaxToneFreqHz = 12000.0
	MinToneGainDB = -60.0
	MaxToneGainDB = 0.0
	MinFMFreqHz   = 5.0
	MaxFMFreqHz   = 20.0
	MinFMDepthHz  = 0.0
	MaxFMDepthHz  = 200.0
	MinBeatRateHz = 1.0
	MaxBeatRateHz = 10.0

	MinBandFreqHz = 1000.0
	MaxBandFreqHz = 12000.0
	MinBandQ      = 5.0
	MaxBandQ      = 30.0
	MinBandGainDB = -12.0
	MaxBandGainDB = 12.0
)

// DefaultSettings returns the initial state: white noise at -20 dB with a
// 6.5 kHz tone at -30 dB, all modulation off, both sources enabled.
func DefaultSettings() Settings {
	return Settings{
		Noise: NoiseParams{
			Type:            noise.White,
			LevelDB:         -20,
			HighShelfGainDB: 0,
			HighShelfFreqHz: 4000,
			NotchEnabled:    false,
			NotchFreqHz:     4000,
			NotchWidthHz:    500,
		},
		Tone: ToneParams{
			FreqHz:     6500,
			GainDB:     -30,
			FMFreqHz:   10,
			FMDepthHz:  50,
			BeatRateHz: 5,
		},
		BandEmphasis: BandEmphasisParams{
			FreqHz: 8000,
			Q:      20,
			GainDB: 0,
		},
		Master: MasterParams{
			NoiseEnabled: true,
			ToneEnabled:  true,
		},
	}
}

// Clamp returns a copy with every numeric field limited to its range.
// Non-finite values fall back to the default for that field and an
// unknown noise type becomes white.
func (s Settings) Clamp() Settings {
	d := DefaultSettings()

	if !s.Noise.Type.Valid() {
		s.Noise.Type = d.Noise.Type
	}
	s.Noise.LevelDB = core.ClampFinite(s.Noise.LevelDB, MinNoiseLevelDB, MaxNoiseLevelDB, d.Noise.LevelDB)
	s.Noise.HighShelfGainDB = core.ClampFinite(s.Noise.HighShelfGainDB, MinShelfGainDB, MaxShelfGainDB, d.Noise.HighShelfGainDB)
	s.Noise.HighShelfFreqHz = core.ClampFinite(s.Noise.HighShelfFreqHz, MinShelfFreqHz, MaxShelfFreqHz, d.Noise.HighShelfFreqHz)
	s.Noise.NotchFreqHz = core.ClampFinite(s.Noise.NotchFreqHz, MinNotchFreqHz, MaxNotchFreqHz, d.Noise.NotchFreqHz)
	s.Noise.NotchWidthHz = core.ClampFinite(s.Noise.NotchWidthHz, MinNotchWidthHz, MaxNotchWidthHz, d.Noise.NotchWidthHz)

	s.Tone.FreqHz = core.ClampFinite(s.Tone.FreqHz, MinToneFreqHz, MaxToneFreqHz, d.Tone.FreqHz)
	s.Tone.GainDB = core.ClampFinite(s.Tone.GainDB, MinToneGainDB, MaxToneGainDB, d.Tone.GainDB)
	s.Tone.FMFreqHz = core.ClampFinite(s.Tone.FMFreqHz, MinFMFreqHz, MaxFMFreqHz, d.Tone.FMFreqHz)
	s.Tone.FMDepthHz = core.ClampFinite(s.Tone.FMDepthHz, MinFMDepthHz, MaxFMDepthHz, d.Tone.FMDepthHz)
	s.Tone.BeatRateHz = core.ClampFinite(s.Tone.BeatRateHz, MinBeatRateHz, MaxBeatRateHz, d.Tone.BeatRateHz)

	s.BandEmphasis.FreqHz = core.ClampFinite(s.BandEmphasis.FreqHz, MinBandFreqHz, MaxBandFreqHz, d.BandEmphasis.FreqHz)
	s.BandEmphasis.Q = core.ClampFinite(s.BandEmphasis.Q, MinBandQ, MaxBandQ, d.BandEmphasis.Q)
	s.BandEmphasis.GainDB = core.ClampFinite(s.BandEmphasis.GainDB, MinBandGainDB, MaxBandGainDB, d.BandEmphasis.GainDB)

	s.Routing.Pan = core.ClampFinite(s.Routing.Pan, -1, 1, d.Routing.Pan)
	s.Routing.Balance = core.ClampFinite(s.Routing.Balance, -1, 1, d.Routing.Balance)

	return s
}

// NotchQ converts a center frequency and bandwidth into a quality factor.
// The result is never below 1e-4, and a zero, negative or non-finite
// width yields that floor instead of Inf or NaN.
func NotchQ(freqHz, widthHz float64) float64 {
	q := freqHz / widthHz
	if widthHz <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return minNotchQ
	}
	return math.Max(minNotchQ, q)
}

const minNotchQ = 1e-4

// Balance returns the constant-power noise and tone gains for balance in
// [-1, 1].
func Balance(balance float64) (noiseGain, toneGain float64) {
	theta := (balance + 1) * math.Pi / 4
	return math.Cos(theta), math.Sin(theta)
}

// ParseSettings decodes a JSON snapshot. Fields missing from data keep
// their default values and the result is clamped.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("synth: decode settings: %w", err)
	}
	return s.Clamp(), nil
}
