// Command tinnitus builds, auditions and exports tinnitus-matching sounds.
//
// Usage:
//
//	tinnitus [-config file] [-v] <command> [flags]
//
// Commands:
//
//	render    render a snapshot to a WAV file
//	play      play a snapshot live with keyboard controls
//	presets   list, show, save, rename or delete presets
//
// Examples:
//
//	tinnitus render -preset "Hiss Base" -o hiss.wav
//	tinnitus render -settings match.json -seconds 10 -mono
//	tinnitus play -a "Hiss Base" -b "Tone + Whistle"
//	tinnitus presets list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-tinnitus/internal/config"
	"github.com/cwbudde/algo-tinnitus/internal/preset"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries what every command needs.
type app struct {
	cfg    config.Config
	log    *logrus.Entry
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tinnitus", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "configuration file (default: search "+config.FileName+")")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	a := &app{
		cfg:    cfg,
		log:    newLogger(cfg, *verbose, stderr),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	a.log.WithFields(logrus.Fields{
		"function": "run",
		"config":   cfg.Source,
		"version":  version,
	}).Debug("Configuration loaded")

	switch rest[0] {
	case "render":
		err = a.render(ctx, rest[1:])
	case "play":
		err = a.play(ctx, rest[1:])
	case "presets":
		err = a.presets(ctx, rest[1:])
	case "version":
		fmt.Fprintf(stdout, "tinnitus %s\n", version)
	case "help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n", rest[0])
		printUsage(stderr)
		return 2
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(cfg config.Config, verbose bool, w io.Writer) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(cfg.Level())
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(l)
}

func (a *app) openStore(ctx context.Context) (*preset.Store, error) {
	s, err := preset.Open(ctx, a.cfg.PresetDB)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"function": "openStore",
		"path":     s.Path(),
	}).Debug("Preset store opened")
	return s, nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: tinnitus [-config file] [-v] <command> [flags]

Commands:
  render    render a snapshot to a WAV file
  play      play a snapshot live with keyboard controls
  presets   list | show NAME | save NAME [-settings FILE] | rename FROM TO | delete NAME
  version   print the version

Run 'tinnitus <command> -h' for command flags.
`)
}
