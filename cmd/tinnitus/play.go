package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/cwbudde/algo-tinnitus/internal/audio"
	"github.com/cwbudde/algo-tinnitus/synth"
)

const (
	redrawInterval = 100 * time.Millisecond
	spectrumWidth  = 64
)

func (a *app) play(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	presetName := fs.String("preset", "", "start from a stored preset")
	settingsPath := fs.String("settings", "", "start from a JSON settings file")
	slotA := fs.String("a", "", "preset for comparison slot A")
	slotB := fs.String("b", "", "preset for comparison slot B")
	headless := fs.Bool("headless", false, "pull audio without a sound device")
	sinkPath := fs.String("sink", "", "with -headless, write raw float32 stereo PCM to this file")
	seconds := fs.Float64("seconds", 0, "stop after this many seconds (0 = until quit)")
	seed := fs.Int64("seed", 1, "noise seed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.newPlaySession(ctx, *presetName, *settingsPath, *slotA, *slotB)
	if err != nil {
		return err
	}

	driver, closeSink, err := a.driver(*headless, *sinkPath)
	if err != nil {
		return err
	}
	defer closeSink()

	eng, err := synth.NewEngine(driver, sess.settings,
		synth.WithSampleRate(a.cfg.SampleRate),
		synth.WithEngineSeed(*seed),
		synth.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	defer eng.Close()

	if err := eng.Start(ctx); err != nil {
		return err
	}
	if eng.NotchEmulated() {
		fmt.Fprintln(a.stderr, "Note: native notch filter unavailable, using a -40 dB peaking filter instead.")
	}

	if *seconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*seconds*float64(time.Second)))
		defer cancel()
	}

	keys, restore, err := a.keyboard()
	if err != nil {
		return err
	}
	defer restore()

	return a.controlLoop(ctx, eng, sess, keys)
}

func (a *app) newPlaySession(ctx context.Context, presetName, settingsPath, slotA, slotB string) (*session, error) {
	initial, err := a.loadSettings(ctx, presetName, settingsPath)
	if err != nil {
		return nil, err
	}
	sess := newSession(initial)
	if slotA == "" && slotB == "" {
		return sess, nil
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	for _, s := range []struct {
		key  byte
		name string
	}{{'a', slotA}, {'b', slotB}} {
		if s.name == "" {
			continue
		}
		p, err := store.Get(ctx, s.name)
		if err != nil {
			return nil, err
		}
		sess.setSlot(s.key, p.Name, p.Settings)
	}
	// Start on A when it is given and no explicit snapshot was requested.
	if presetName == "" && settingsPath == "" {
		if _, ok := sess.slots['a']; ok {
			sess.handle('a')
		} else {
			sess.handle('b')
		}
	}
	return sess, nil
}

func (a *app) driver(headless bool, sinkPath string) (synth.Driver, func(), error) {
	if !headless {
		return audio.NewOto(audio.WithBuffer(a.cfg.Buffer()), audio.WithOtoLogger(a.log)), func() {}, nil
	}

	opts := []audio.HeadlessOption{audio.WithPacing(true)}
	closeSink := func() {}
	if sinkPath != "" {
		f, err := os.Create(sinkPath)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, audio.WithSink(f))
		closeSink = func() {
			if err := f.Close(); err != nil {
				a.log.WithFields(logrus.Fields{
					"function": "play",
					"error":    err.Error(),
				}).Warn("Closing PCM sink failed")
			}
		}
	}
	return audio.NewHeadless(opts...), closeSink, nil
}

// keyboard puts stdin into raw mode and forwards key presses. Without a
// terminal the returned channel never delivers.
func (a *app) keyboard() (<-chan byte, func(), error) {
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil, func() {}, nil
	}

	fd := int(f.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot enter raw mode: %w", err)
	}

	keys := make(chan byte, 8)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				keys <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()

	return keys, func() { _ = term.Restore(fd, old) }, nil
}

func (a *app) controlLoop(ctx context.Context, eng *synth.Engine, sess *session, keys <-chan byte) error {
	tick := time.NewTicker(redrawInterval)
	defer tick.Stop()

	bins := make([]byte, eng.FrequencyBinCount())
	interactive := keys != nil
	if !interactive {
		fmt.Fprintln(a.stdout, sess.status())
	}
	draw := func() {
		if !interactive {
			return
		}
		eng.ByteFrequencyData(bins)
		state := "playing"
		if !eng.Running() {
			state = "paused"
		}
		var out strings.Builder
		out.WriteString("\033[2J\033[H")
		fmt.Fprintf(&out, "tinnitus play  (%s)\n\n", state)
		fmt.Fprintf(&out, "%s\n\n", spectrumLine(bins, spectrumWidth))
		fmt.Fprintf(&out, "%s\n\n%s\n", sess.status(), helpLine)
		// Raw mode needs explicit carriage returns.
		_, _ = io.WriteString(a.stdout, strings.ReplaceAll(out.String(), "\n", "\r\n"))
	}

	for {
		draw()
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		case key := <-keys:
			switch sess.handle(key) {
			case actionQuit:
				if interactive {
					_, _ = io.WriteString(a.stdout, "\033[2J\033[H")
				}
				return nil
			case actionToggle:
				if err := a.toggle(ctx, eng); err != nil {
					return err
				}
			case actionUpdate:
				eng.Update(sess.settings)
			}
		}
	}
}

func (a *app) toggle(ctx context.Context, eng *synth.Engine) error {
	if eng.Running() {
		return eng.Stop()
	}
	return eng.Start(ctx)
}
