package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-tinnitus/synth"
)

// loadSettings resolves a snapshot from a JSON file ("-" reads stdin), a
// stored preset, or the defaults, in that order of precedence.
func (a *app) loadSettings(ctx context.Context, presetName, settingsPath string) (synth.Settings, error) {
	switch {
	case settingsPath != "":
		return a.readSettings(settingsPath)
	case presetName != "":
		store, err := a.openStore(ctx)
		if err != nil {
			return synth.Settings{}, err
		}
		defer store.Close()
		p, err := store.Get(ctx, presetName)
		if err != nil {
			return synth.Settings{}, err
		}
		return p.Settings, nil
	default:
		return synth.DefaultSettings(), nil
	}
}

func (a *app) readSettings(path string) (synth.Settings, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return synth.Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	s, err := synth.ParseSettings(data)
	if err != nil {
		return synth.Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
