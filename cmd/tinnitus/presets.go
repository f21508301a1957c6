package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/cwbudde/algo-tinnitus/internal/preset"
)

func (a *app) presets(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"list"}
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	switch args[0] {
	case "list":
		return a.presetList(ctx, store)
	case "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: tinnitus presets show NAME")
		}
		p, err := store.Get(ctx, args[1])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(p.Settings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s\n", data)
		return nil
	case "save":
		return a.presetSave(ctx, store, args[1:])
	case "rename":
		if len(args) != 3 {
			return fmt.Errorf("usage: tinnitus presets rename FROM TO")
		}
		if err := store.Rename(ctx, args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Renamed %q to %q\n", args[1], args[2])
		return nil
	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: tinnitus presets delete NAME")
		}
		if err := store.Delete(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Deleted %q\n", args[1])
		return nil
	default:
		return fmt.Errorf("unknown presets command %q", args[0])
	}
}

func (a *app) presetList(ctx context.Context, store *preset.Store) error {
	list, err := store.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tNOISE\tTONE\tUPDATED")
	for i, p := range list {
		s := p.Settings
		noise := "off"
		if s.Master.NoiseEnabled {
			noise = fmt.Sprintf("%s %.0f dB", s.Noise.Type, s.Noise.LevelDB)
		}
		tone := "off"
		if s.Master.ToneEnabled {
			tone = fmt.Sprintf("%.0f Hz %.0f dB", s.Tone.FreqHz, s.Tone.GainDB)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, p.Name, noise, tone, p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (a *app) presetSave(ctx context.Context, store *preset.Store, args []string) error {
	fs := flag.NewFlagSet("presets save", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	settingsPath := fs.String("settings", "-", "JSON settings file (- for stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: tinnitus presets save [-settings FILE] NAME")
	}

	s, err := a.readSettings(*settingsPath)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, fs.Arg(0), s); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Saved %q\n", fs.Arg(0))
	return nil
}
