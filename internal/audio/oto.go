package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tinnitus/synth"
)

// ErrSampleRateMismatch is returned when a stream asks for a rate other than
// the one the process-wide output context was created with.
var ErrSampleRateMismatch = errors.New("audio: sample rate differs from the open output context")

// oto allows a single context per process.
var (
	otoCtx     *oto.Context
	otoRate    int
	otoOnce    sync.Once
	otoInitErr error
	otoReady   chan struct{}
)

// DefaultBuffer is the output buffer length used when none is configured.
const DefaultBuffer = 50 * time.Millisecond

// Oto plays through the platform sound device.
type Oto struct {
	buffer time.Duration
	log    *logrus.Entry
}

// OtoOption configures an Oto driver.
type OtoOption func(*Oto)

// WithBuffer sets the device buffer length. Values <= 0 keep the default.
func WithBuffer(d time.Duration) OtoOption {
	return func(o *Oto) {
		if d > 0 {
			o.buffer = d
		}
	}
}

// WithOtoLogger sets the log entry for device events.
func WithOtoLogger(l *logrus.Entry) OtoOption {
	return func(o *Oto) {
		if l != nil {
			o.log = l
		}
	}
}

// NewOto returns a driver for the default output device.
func NewOto(opts ...OtoOption) *Oto {
	o := &Oto{
		buffer: DefaultBuffer,
		log:    logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

var _ synth.Driver = (*Oto)(nil)

func outputContext(sampleRate int) (*oto.Context, chan struct{}, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatFloat32LE,
		}
		otoCtx, otoReady, otoInitErr = oto.NewContext(op)
		otoRate = sampleRate
	})
	if otoInitErr != nil {
		return nil, nil, otoInitErr
	}
	if sampleRate != otoRate {
		return nil, nil, fmt.Errorf("%w: have %d, want %d", ErrSampleRateMismatch, otoRate, sampleRate)
	}
	return otoCtx, otoReady, nil
}

// Open creates a paused player that pulls from pull. It waits for the device
// to become ready or for ctx to be done.
func (o *Oto) Open(ctx context.Context, sampleRate int, pull func(left, right []float64)) (synth.Stream, error) {
	c, ready, err := outputContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("audio: initialize output: %w", err)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return nil, fmt.Errorf("audio: waiting for output device: %w", ctx.Err())
	}

	s := &otoStream{src: newPuller(pull)}
	s.player = c.NewPlayer(s)
	bufBytes := int(o.buffer.Seconds()*float64(sampleRate)) * BytesPerFrame
	s.player.SetBufferSize(bufBytes)

	o.log.WithFields(logrus.Fields{
		"function":     "Oto.Open",
		"sample_rate":  sampleRate,
		"buffer_bytes": bufBytes,
	}).Debug("Output stream opened")

	return s, nil
}

// otoStream feeds a player. Read runs on oto's goroutine; the mutex makes
// Pause a barrier so pull is never entered after Pause returns.
type otoStream struct {
	player *oto.Player

	mu     sync.Mutex
	src    *puller
	active bool
}

func (s *otoStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		n := len(p) / BytesPerFrame * BytesPerFrame
		clear(p[:n])
		return n, nil
	}
	return s.src.fill(p), nil
}

func (s *otoStream) Play() error {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	s.player.Play()
	return s.player.Err()
}

func (s *otoStream) Pause() error {
	s.player.Pause()

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
	return nil
}

func (s *otoStream) Close() error {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
	return s.player.Close()
}
