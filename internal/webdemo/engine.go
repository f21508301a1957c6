// Package webdemo adapts the synth engine to a host that pulls audio
// itself, such as a browser AudioWorklet calling into WebAssembly.
package webdemo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tinnitus/synth"
)

// hostDriver hands the pull function back to the host. The host goroutine
// is the audio context.
type hostDriver struct {
	pull    func(left, right []float64)
	playing bool
}

func (d *hostDriver) Open(_ context.Context, _ int, pull func(left, right []float64)) (synth.Stream, error) {
	d.pull = pull
	return d, nil
}

func (d *hostDriver) Play() error  { d.playing = true; return nil }
func (d *hostDriver) Pause() error { d.playing = false; return nil }
func (d *hostDriver) Close() error { d.playing = false; d.pull = nil; return nil }

// Engine runs the synthesis engine for a pulling host.
type Engine struct {
	sampleRate float64
	drv        *hostDriver
	eng        *synth.Engine
	left       []float64
	right      []float64
}

// NewEngine creates a stopped engine at sampleRate with default settings.
func NewEngine(sampleRate float64) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	l := logrus.New()
	l.SetOutput(io.Discard)

	drv := &hostDriver{}
	eng, err := synth.NewEngine(drv, synth.DefaultSettings(),
		synth.WithSampleRate(int(sampleRate)),
		synth.WithLogger(logrus.NewEntry(l)),
	)
	if err != nil {
		return nil, err
	}
	return &Engine{sampleRate: sampleRate, drv: drv, eng: eng}, nil
}

// SetRunning starts or pauses playback.
func (e *Engine) SetRunning(running bool) error {
	if running {
		return e.eng.Start(context.Background())
	}
	return e.eng.Stop()
}

// Running reports whether Render produces signal.
func (e *Engine) Running() bool { return e.eng.Running() }

// SetSettingsJSON applies a JSON snapshot with a smoothed transition.
func (e *Engine) SetSettingsJSON(data []byte) error {
	s, err := synth.ParseSettings(data)
	if err != nil {
		return err
	}
	e.eng.Update(s)
	return nil
}

// Settings returns the current snapshot.
func (e *Engine) Settings() synth.Settings { return e.eng.Settings() }

// Render fills dst with interleaved stereo float32 samples. While stopped it
// writes silence.
func (e *Engine) Render(dst []float32) {
	frames := len(dst) / 2
	if !e.drv.playing || e.drv.pull == nil {
		clear(dst)
		return
	}
	if cap(e.left) < frames {
		e.left = make([]float64, frames)
		e.right = make([]float64, frames)
	}
	l, r := e.left[:frames], e.right[:frames]
	e.drv.pull(l, r)
	for i := range frames {
		dst[2*i] = float32(l[i])
		dst[2*i+1] = float32(r[i])
	}
}

// Spectrum writes the analyser magnitudes scaled to 0..255.
func (e *Engine) Spectrum(dst []byte) int { return e.eng.ByteFrequencyData(dst) }

// SpectrumBins returns the analyser bin count.
func (e *Engine) SpectrumBins() int { return e.eng.FrequencyBinCount() }

// NotchEmulated reports whether the notch runs as a peaking filter.
func (e *Engine) NotchEmulated() bool { return e.eng.NotchEmulated() }

// Export renders the current snapshot offline in the export profile and
// returns it interleaved.
func (e *Engine) Export(ctx context.Context, seconds float64) ([]float32, error) {
	opts := synth.ExportOptions()
	if seconds > 0 {
		opts.Duration = time.Duration(seconds * float64(time.Second))
	}
	buf, err := synth.Render(ctx, e.eng.Settings(), opts)
	if err != nil {
		return nil, err
	}
	inter := buf.Interleaved()
	out := make([]float32, len(inter))
	for i, v := range inter {
		out[i] = float32(v)
	}
	return out, nil
}

// Close releases the engine.
func (e *Engine) Close() error { return e.eng.Close() }
