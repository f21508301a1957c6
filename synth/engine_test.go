package synth

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-tinnitus/dsp/noise"
	"github.com/cwbudde/algo-tinnitus/internal/testutil"
	"github.com/cwbudde/algo-tinnitus/stats/level"
)

// fakeDriver hands the pull function to the test, which plays the role of
// the audio goroutine.
type fakeDriver struct {
	mu      sync.Mutex
	openErr error
	playErr error
	opens   int
	stream  *fakeStream
}

type fakeStream struct {
	pull    func(left, right []float64)
	playErr error
	playing bool
	closed  bool
	plays   int
	pauses  int
}

func (d *fakeDriver) Open(_ context.Context, _ int, pull func(left, right []float64)) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opens++
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.stream = &fakeStream{pull: pull, playErr: d.playErr}
	return d.stream, nil
}

func (s *fakeStream) Play() error {
	if s.playErr != nil {
		return s.playErr
	}
	s.playing = true
	s.plays++
	return nil
}

func (s *fakeStream) Pause() error {
	s.playing = false
	s.pauses++
	return nil
}

func (s *fakeStream) Close() error {
	s.playing = false
	s.closed = true
	return nil
}

func (s *fakeStream) render(frames, block int) (left, right []float64) {
	left = make([]float64, frames)
	right = make([]float64, frames)
	for off := 0; off < frames; off += block {
		end := min(off+block, frames)
		s.pull(left[off:end], right[off:end])
	}
	return left, right
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newTestEngine(t *testing.T, d Driver, s Settings, opts ...EngineOption) *Engine {
	t.Helper()
	e, err := NewEngine(d, s, append([]EngineOption{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngine_StartStopIdempotent(t *testing.T) {
	d := &fakeDriver{}
	e := newTestEngine(t, d, DefaultSettings())

	require.NoError(t, e.Stop(), "stopping a stopped engine")
	require.NoError(t, e.Start(context.Background()))
	require.NoError(t, e.Start(context.Background()))
	assert.True(t, e.Running())
	assert.Equal(t, 1, d.opens)
	assert.Equal(t, 1, d.stream.plays)

	require.NoError(t, e.Stop())
	require.NoError(t, e.Stop())
	assert.False(t, e.Running())
	assert.Equal(t, 1, d.stream.pauses)

	require.NoError(t, e.Start(context.Background()))
	assert.Equal(t, 1, d.opens, "resume reuses the stream")
	assert.Equal(t, 2, d.stream.plays)
}

func TestEngine_StartFailureLeavesEngineStopped(t *testing.T) {
	d := &fakeDriver{openErr: errors.New("no output device")}
	e := newTestEngine(t, d, DefaultSettings())

	err := e.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output device")
	assert.False(t, e.Running())
	assert.Nil(t, e.graph)

	// Retry succeeds once the platform recovers.
	d.openErr = nil
	require.NoError(t, e.Start(context.Background()))
	assert.True(t, e.Running())
}

func TestEngine_PlayFailureTearsDownStream(t *testing.T) {
	d := &fakeDriver{playErr: errors.New("device busy")}
	e := newTestEngine(t, d, DefaultSettings())

	err := e.Start(context.Background())
	require.Error(t, err)
	assert.True(t, d.stream.closed)
	assert.False(t, e.Running())
	assert.Nil(t, e.stream)
}

func TestEngine_NoDriverAndClosed(t *testing.T) {
	e := newTestEngine(t, nil, DefaultSettings())
	assert.ErrorIs(t, e.Start(context.Background()), ErrNoAudioDriver)

	d := &fakeDriver{}
	e = newTestEngine(t, d, DefaultSettings())
	require.NoError(t, e.Start(context.Background()))
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.True(t, d.stream.closed)
	assert.ErrorIs(t, e.Start(context.Background()), ErrEngineClosed)
}

func TestEngine_ParityWithRenderer(t *testing.T) {
	s := brownScenario()
	s.Noise.NotchEnabled = true
	s.Tone.HarmonicsEnabled = true

	opts := RenderOptions{SampleRate: 44100, Channels: 2, Duration: 100 * time.Millisecond, Seed: 77}
	rg, frames, err := newRenderGraph(s, opts)
	require.NoError(t, err)

	d := &fakeDriver{}
	e := newTestEngine(t, d, s, WithEngineSeed(77))
	require.NoError(t, e.Start(context.Background()))

	assert.Equal(t, rg.Params(), e.graph.Params())
	assert.Equal(t, rg.NotchMode(), e.graph.NotchMode())

	// With equal seeds the live stream reproduces the render, whatever the
	// driver's block size.
	buf, err := Render(context.Background(), s, opts)
	require.NoError(t, err)
	l, r := d.stream.render(frames, 441)
	assert.Equal(t, buf.Channels[0], l)
	assert.Equal(t, buf.Channels[1], r)
}

func TestEngine_UpdateIsSmoothed(t *testing.T) {
	d := &fakeDriver{}
	s := DefaultSettings()
	e := newTestEngine(t, d, s)
	require.NoError(t, e.Start(context.Background()))
	d.stream.render(256, 128)

	next := s
	next.Noise.LevelDB = -50
	e.Update(next)
	e.Update(next) // only the newest snapshot matters
	assert.Equal(t, next, e.Settings())

	want := Derive(next, 44100, e.graph.NotchMode())
	d.stream.render(128, 128)
	mid := e.graph.Params()
	assert.Greater(t, mid.NoiseGain, want.NoiseGain)

	d.stream.render(2205, 128)
	assert.Equal(t, want, e.graph.Params())
}

func TestEngine_UpdateWhileStoppedAppliesOnResume(t *testing.T) {
	d := &fakeDriver{}
	e := newTestEngine(t, d, DefaultSettings())
	require.NoError(t, e.Start(context.Background()))
	require.NoError(t, e.Stop())

	next := DefaultSettings()
	next.Tone.FreqHz = 9000
	e.Update(next)

	require.NoError(t, e.Start(context.Background()))
	d.stream.render(4096, 256)
	assert.Equal(t, 9000.0, e.graph.Params().CarrierHz)
}

func TestEngine_StopStartKeepsSteadyState(t *testing.T) {
	s := DefaultSettings()
	s.Master.NoiseEnabled = false
	s.Tone.FreqHz = 5000
	s.Routing.Balance = 1

	d := &fakeDriver{}
	e := newTestEngine(t, d, s)
	require.NoError(t, e.Start(context.Background()))
	before, _ := d.stream.render(1<<13, 512)

	require.NoError(t, e.Stop())
	require.NoError(t, e.Start(context.Background()))
	after, _ := d.stream.render(1<<13, 512)

	f1, err := testutil.PeakFrequency(before, 44100)
	require.NoError(t, err)
	f2, err := testutil.PeakFrequency(after, 44100)
	require.NoError(t, err)
	assert.Equal(t, f1, f2)
	assert.InDelta(t, level.RMS(before), level.RMS(after), 1e-3)
}

func TestEngine_StopStartKeepsNoiseSlope(t *testing.T) {
	s := noiseOnly(noise.Blue)
	d := &fakeDriver{}
	e := newTestEngine(t, d, s)

	ratio := func() float64 {
		require.NoError(t, e.Start(context.Background()))
		l, _ := d.stream.render(1<<16, 1024)
		require.NoError(t, e.Stop())
		r, err := testutil.BandRatioDB(l, 44100, 44100/4, 44100/2, 44100/8, 44100/4)
		require.NoError(t, err)
		return r
	}

	first, second := ratio(), ratio()
	assert.InDelta(t, first, second, 0.5)
	assert.Greater(t, first, 2.0)
}

func TestEngine_Analyser(t *testing.T) {
	s := DefaultSettings()
	s.Master.NoiseEnabled = false
	s.Tone.GainDB = 0
	s.Tone.FreqHz = 6890.625 // bin 160 of a 1024-point frame at 44.1 kHz
	s.Routing.Balance = 1

	d := &fakeDriver{}
	e := newTestEngine(t, d, s, WithAnalyserSettings(1024, 0))
	require.NoError(t, e.Start(context.Background()))
	d.stream.render(4096, 128)

	require.Equal(t, 512, e.FrequencyBinCount())
	db := make([]float64, e.FrequencyBinCount())
	require.Equal(t, 512, e.FloatFrequencyData(db))

	peak := 0
	for k := range db {
		if db[k] > db[peak] {
			peak = k
		}
	}
	assert.Equal(t, 160, peak)

	bytes := make([]byte, 512)
	e.ByteFrequencyData(bytes)
	assert.Equal(t, byte(255), bytes[160])
	assert.False(t, math.IsNaN(db[0]))
}

func TestEngine_NotchEmulated(t *testing.T) {
	e := newTestEngine(t, &fakeDriver{}, DefaultSettings())
	assert.False(t, e.NotchEmulated())

	d := &fakeDriver{}
	e = newTestEngine(t, d, DefaultSettings(), WithEngineNotchMode(NotchEmulated))
	assert.True(t, e.NotchEmulated())
	require.NoError(t, e.Start(context.Background()))
	assert.True(t, e.graph.NotchEmulated())
}

func TestNewEngine_InvalidAnalyser(t *testing.T) {
	_, err := NewEngine(&fakeDriver{}, DefaultSettings(), WithAnalyserSettings(1000, 0.5))
	assert.Error(t, err)
}
