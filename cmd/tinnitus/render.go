package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tinnitus/internal/wavfile"
	"github.com/cwbudde/algo-tinnitus/stats/level"
	"github.com/cwbudde/algo-tinnitus/synth"
)

func (a *app) render(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	out := fs.String("o", wavfile.DefaultName, "output WAV file")
	presetName := fs.String("preset", "", "render a stored preset")
	settingsPath := fs.String("settings", "", "render a JSON settings file (- for stdin)")
	seconds := fs.Float64("seconds", a.cfg.ExportSeconds, "duration in seconds")
	rate := fs.Int("rate", 44100, "sample rate in Hz")
	seed := fs.Int64("seed", 1, "noise seed")
	mono := fs.Bool("mono", false, "write a mono downmix")
	notch := fs.String("notch", "auto", "notch realisation: auto, native or emulated")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, err := synth.ParseNotchMode(*notch)
	if err != nil {
		return err
	}
	s, err := a.loadSettings(ctx, *presetName, *settingsPath)
	if err != nil {
		return err
	}

	opts := synth.ExportOptions()
	opts.SampleRate = float64(*rate)
	opts.Duration = time.Duration(*seconds * float64(time.Second))
	opts.Seed = *seed
	opts.NotchMode = mode
	if *mono {
		opts.Channels = 1
	}

	started := time.Now()
	buf, err := synth.Render(ctx, s, opts)
	if err != nil {
		return err
	}
	if err := wavfile.WriteFile(*out, buf); err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"function": "render",
		"file":     *out,
		"frames":   buf.Frames(),
		"channels": len(buf.Channels),
		"elapsed":  time.Since(started).Round(time.Millisecond),
	}).Info("Export written")
	fmt.Fprintf(a.stdout, "Wrote %s (%d frames, %d ch, %g Hz)\n", *out, buf.Frames(), len(buf.Channels), buf.SampleRate)
	for ch, st := range level.Channels(buf.Channels) {
		fmt.Fprintf(a.stdout, "  ch%d  peak %6.1f dBFS  rms %6.1f dBFS\n", ch+1, st.PeakDB, st.RMSDB)
		if st.Clipped > 0 {
			a.log.WithFields(logrus.Fields{
				"function": "render",
				"channel":  ch + 1,
				"samples":  st.Clipped,
			}).Warn("Export reaches full scale; lower the levels to avoid clipping")
		}
	}

	return nil
}
