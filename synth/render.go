package synth

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-tinnitus/dsp/core"
)

// RenderOptions configures an offline render.
type RenderOptions struct {
	SampleRate float64
	// Channels is 1 (mono downmix) or 2.
	Channels  int
	Duration  time.Duration
	Seed      int64
	NotchMode NotchMode
	// BlockSize is the number of frames processed between cancellation
	// checks. Zero selects one render quantum.
	BlockSize int
}

// ExportOptions returns the export profile: stereo, 44.1 kHz, 30 seconds.
func ExportOptions() RenderOptions {
	return RenderOptions{
		SampleRate: 44100,
		Channels:   2,
		Duration:   30 * time.Second,
		Seed:       1,
		BlockSize:  core.RenderQuantum,
	}
}

// Buffer is planar rendered audio.
type Buffer struct {
	Channels   [][]float64
	SampleRate float64
}

// Frames returns the number of sample frames per channel.
func (b *Buffer) Frames() int {
	if b == nil || len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Interleaved returns the samples frame by frame (L, R, L, R, ...).
func (b *Buffer) Interleaved() []float64 {
	frames := b.Frames()
	if frames == 0 {
		return nil
	}
	nch := len(b.Channels)
	out := make([]float64, frames*nch)
	for ch, data := range b.Channels {
		for i, v := range data {
			out[i*nch+ch] = v
		}
	}
	return out
}

// FrameCount returns round(d·sampleRate).
func FrameCount(d time.Duration, sampleRate float64) int {
	return int(math.Round(d.Seconds() * sampleRate))
}

// Render produces the signal of settings from t=0 for the requested
// duration. Settings are applied immediately, so the result matches the
// live engine's steady state for the same snapshot. ctx is checked between
// blocks.
func Render(ctx context.Context, settings Settings, opts RenderOptions) (*Buffer, error) {
	g, frames, err := newRenderGraph(settings, opts)
	if err != nil {
		return nil, err
	}

	block := opts.BlockSize
	if block <= 0 {
		block = core.RenderQuantum
	}

	left := make([]float64, frames)
	right := make([]float64, frames)
	for off := 0; off < frames; off += block {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("synth: render canceled at frame %d: %w", off, err)
		}
		end := min(off+block, frames)
		g.Process(left[off:end], right[off:end])
	}

	buf := &Buffer{SampleRate: opts.SampleRate}
	if opts.Channels == 1 {
		for i := range left {
			left[i] = 0.5 * (left[i] + right[i])
		}
		buf.Channels = [][]float64{left}
	} else {
		buf.Channels = [][]float64{left, right}
	}
	return buf, nil
}

func newRenderGraph(settings Settings, opts RenderOptions) (*Graph, int, error) {
	if opts.SampleRate <= 0 || math.IsNaN(opts.SampleRate) || math.IsInf(opts.SampleRate, 0) {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidSampleRate, opts.SampleRate)
	}
	if opts.Channels != 1 && opts.Channels != 2 {
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidChannels, opts.Channels)
	}
	frames := FrameCount(opts.Duration, opts.SampleRate)
	if opts.Duration <= 0 || frames <= 0 {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidDuration, opts.Duration)
	}

	g, err := NewGraph(opts.SampleRate, WithSeed(opts.Seed), WithNotchMode(opts.NotchMode))
	if err != nil {
		return nil, 0, err
	}
	NewController(g).Apply(settings, Immediate)

	return g, frames, nil
}
