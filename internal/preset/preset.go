// Package preset stores named settings snapshots in a SQLite database.
//
// The store is seeded with the default slots on first open. Slots keep their
// insertion order; saving an existing name replaces its settings in place.
package preset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cwbudde/algo-tinnitus/dsp/noise"
	"github.com/cwbudde/algo-tinnitus/synth"
)

// FileName is the default database file name.
const FileName = "presets.db"

const dirPerm = 0o755

// Sentinel errors.
var (
	ErrNotFound  = errors.New("preset: not found")
	ErrExists    = errors.New("preset: name already in use")
	ErrEmptyName = errors.New("preset: empty name")
)

// Preset is a named settings snapshot.
type Preset struct {
	Name      string
	Settings  synth.Settings
	UpdatedAt time.Time
}

// Defaults returns the slots a new store starts with.
func Defaults() []Preset {
	base := synth.DefaultSettings()

	hiss := base
	hiss.Master = synth.MasterParams{NoiseEnabled: true, ToneEnabled: false}
	hiss.Noise = synth.NoiseParams{
		Type:            noise.Brown,
		LevelDB:         -15,
		HighShelfGainDB: -6,
		HighShelfFreqHz: 5000,
		NotchFreqHz:     4000,
		NotchWidthHz:    500,
	}

	whistle := base
	whistle.Master = synth.MasterParams{NoiseEnabled: false, ToneEnabled: true}
	whistle.Tone.FreqHz = 8000
	whistle.Tone.GainDB = -25
	whistle.Tone.FMEnabled = true
	whistle.Tone.FMFreqHz = 8
	whistle.Tone.FMDepthHz = 80

	return []Preset{
		{Name: "Hiss Base", Settings: hiss},
		{Name: "Tone + Whistle", Settings: whistle},
		{Name: "Slot 3", Settings: base},
		{Name: "Slot 4", Settings: base},
		{Name: "Slot 5", Settings: base},
	}
}

// Store is a SQLite backed preset list.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the database at path and seeds the default
// presets if the table is empty.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
			return nil, fmt.Errorf("preset: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("preset: open: %w", err)
	}
	// A single connection keeps :memory: databases shared across calls.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("preset: pragma: %w", err)
		}
	}

	ddl := `
CREATE TABLE IF NOT EXISTS presets (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT    NOT NULL UNIQUE,
    position   INTEGER NOT NULL,
    settings   TEXT    NOT NULL,
    updated_at TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_presets_position ON presets(position);
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("preset: schema: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.seed(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) seed(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM presets`).Scan(&n); err != nil {
		return fmt.Errorf("preset: count: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, p := range Defaults() {
		if err := s.Save(ctx, p.Name, p.Settings); err != nil {
			return fmt.Errorf("preset: seed %q: %w", p.Name, err)
		}
	}
	return nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// List returns every preset in slot order.
func (s *Store) List(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, settings, updated_at FROM presets ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("preset: list: %w", err)
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preset: list: %w", err)
	}
	return out, nil
}

// Get returns the preset called name.
func (s *Store) Get(ctx context.Context, name string) (Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, settings, updated_at FROM presets WHERE name = ?`, name)
	p, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, err
}

// Save stores settings under name, replacing an existing preset of that
// name or appending a new slot.
func (s *Store) Save(ctx context.Context, name string, settings synth.Settings) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("preset: encode %q: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO presets (name, position, settings, updated_at)
VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM presets), ?, ?)
ON CONFLICT(name) DO UPDATE SET settings = excluded.settings, updated_at = excluded.updated_at`,
		name, string(data), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("preset: save %q: %w", name, err)
	}
	return nil
}

// Rename changes the name of a preset, keeping its slot.
func (s *Store) Rename(ctx context.Context, from, to string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrEmptyName
	}
	if to == from {
		_, err := s.Get(ctx, from)
		return err
	}
	if _, err := s.Get(ctx, to); err == nil {
		return fmt.Errorf("%w: %q", ErrExists, to)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE presets SET name = ?, updated_at = ? WHERE name = ?`,
		to, time.Now().UTC().Format(time.RFC3339Nano), from)
	if err != nil {
		return fmt.Errorf("preset: rename %q: %w", from, err)
	}
	return affected(res, from)
}

// Delete removes a preset.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("preset: delete %q: %w", name, err)
	}
	return affected(res, name)
}

func affected(res sql.Result, name string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(r scanner) (Preset, error) {
	var (
		p       Preset
		data    string
		updated string
	)
	if err := r.Scan(&p.Name, &data, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preset{}, err
		}
		return Preset{}, fmt.Errorf("preset: scan: %w", err)
	}

	settings, err := synth.ParseSettings([]byte(data))
	if err != nil {
		return Preset{}, fmt.Errorf("preset: %q: %w", p.Name, err)
	}
	p.Settings = settings
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		p.UpdatedAt = t
	}
	return p, nil
}
