package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-tinnitus/synth"
)

// DefaultBlockFrames is the headless pull size.
const DefaultBlockFrames = 512

// Headless pulls audio on its own goroutine without a sound device. With a
// sink it writes interleaved float32 LE frames to it; with pacing it pulls
// at the stream's sample rate, otherwise as fast as the graph renders.
type Headless struct {
	sink   io.Writer
	block  int
	paced  bool
	limit  int64
	frames atomic.Int64
}

// HeadlessOption configures a Headless driver.
type HeadlessOption func(*Headless)

// WithSink writes every pulled block to w.
func WithSink(w io.Writer) HeadlessOption {
	return func(h *Headless) { h.sink = w }
}

// WithBlockFrames sets the number of frames per pull.
func WithBlockFrames(n int) HeadlessOption {
	return func(h *Headless) {
		if n > 0 {
			h.block = n
		}
	}
}

// WithPacing pulls blocks in real time instead of back to back.
func WithPacing(paced bool) HeadlessOption {
	return func(h *Headless) { h.paced = paced }
}

// WithFrameLimit stops pulling after n frames have been produced. The stream
// stays open.
func WithFrameLimit(n int64) HeadlessOption {
	return func(h *Headless) { h.limit = n }
}

// NewHeadless returns a headless driver.
func NewHeadless(opts ...HeadlessOption) *Headless {
	h := &Headless{block: DefaultBlockFrames}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

var _ synth.Driver = (*Headless)(nil)

// Frames returns the number of frames pulled so far across all streams.
func (h *Headless) Frames() int64 { return h.frames.Load() }

// Open returns a paused stream.
func (h *Headless) Open(_ context.Context, sampleRate int, pull func(left, right []float64)) (synth.Stream, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("audio: headless sample rate %d: %w", sampleRate, synth.ErrInvalidSampleRate)
	}
	return &headlessStream{
		driver:     h,
		sampleRate: sampleRate,
		src:        newPuller(pull),
		buf:        make([]byte, h.block*BytesPerFrame),
	}, nil
}

type headlessStream struct {
	driver     *Headless
	sampleRate int
	src        *puller
	buf        []byte

	mu     sync.Mutex
	stop   chan struct{}
	done   chan struct{}
	err    error
	closed bool
}

// Play starts the pull goroutine.
func (s *headlessStream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("audio: play on closed stream")
	}
	if s.stop != nil {
		return nil
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
	return nil
}

func (s *headlessStream) run(stop, done chan struct{}) {
	defer close(done)

	h := s.driver
	var tick <-chan time.Time
	if h.paced {
		period := time.Duration(float64(h.block) / float64(s.sampleRate) * float64(time.Second))
		t := time.NewTicker(period)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-stop:
			return
		default:
		}
		buf := s.buf
		if h.limit > 0 {
			remaining := h.limit - h.frames.Load()
			if remaining <= 0 {
				return
			}
			if remaining*BytesPerFrame < int64(len(buf)) {
				buf = buf[:remaining*BytesPerFrame]
			}
		}

		n := s.src.fill(buf)
		h.frames.Add(int64(n / BytesPerFrame))
		if h.sink != nil {
			if _, err := h.sink.Write(buf[:n]); err != nil {
				s.mu.Lock()
				s.err = fmt.Errorf("audio: write sink: %w", err)
				s.mu.Unlock()
				return
			}
		}

		if tick != nil {
			select {
			case <-stop:
				return
			case <-tick:
			}
		}
	}
}

// Pause stops the pull goroutine and waits for it to exit.
func (s *headlessStream) Pause() error {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close pauses the stream and marks it closed.
func (s *headlessStream) Close() error {
	err := s.Pause()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}
