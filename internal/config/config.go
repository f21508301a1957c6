// Package config loads the command line configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// FileName is the configuration file searched for by Load.
const FileName = "tinnitus-config.json"

// AppDirName names the per-user configuration and data directory.
const AppDirName = "tinnitus"

// Defaults.
const (
	DefaultSampleRate    = 44100
	DefaultExportSeconds = 30
	DefaultLogLevel      = "info"
	DefaultBufferMS      = 50
)

// Config holds the command line options read from a file.
type Config struct {
	SampleRate    int     `json:"sample_rate"`
	ExportSeconds float64 `json:"export_seconds"`
	PresetDB      string  `json:"preset_db"`
	LogLevel      string  `json:"log_level"`
	BufferMS      int     `json:"buffer_ms"`

	// Source is the file the configuration was read from, empty for
	// built-in defaults.
	Source string `json:"-"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		SampleRate:    DefaultSampleRate,
		ExportSeconds: DefaultExportSeconds,
		PresetDB:      filepath.Join(DataDir(), "presets.db"),
		LogLevel:      DefaultLogLevel,
		BufferMS:      DefaultBufferMS,
	}
}

// UnmarshalJSON sets defaults then decodes the JSON structure, so only
// values present in the file override them.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = Default()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Validate reports the first out-of-range option.
func (c Config) Validate() error {
	switch {
	case c.SampleRate < 8000 || c.SampleRate > 192000:
		return fmt.Errorf("config: sample_rate %d outside [8000, 192000]", c.SampleRate)
	case c.ExportSeconds <= 0:
		return fmt.Errorf("config: export_seconds must be positive, got %v", c.ExportSeconds)
	case c.BufferMS <= 0:
		return fmt.Errorf("config: buffer_ms must be positive, got %d", c.BufferMS)
	case c.PresetDB == "":
		return errors.New("config: preset_db is empty")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// ExportDuration returns export_seconds as a duration.
func (c Config) ExportDuration() time.Duration {
	return time.Duration(c.ExportSeconds * float64(time.Second))
}

// Buffer returns buffer_ms as a duration.
func (c Config) Buffer() time.Duration {
	return time.Duration(c.BufferMS) * time.Millisecond
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Load reads the configuration. It tries, in order:
//  1. explicitPath (if non-empty; it must exist)
//  2. tinnitus-config.json next to the running binary
//  3. the user config directory
//
// When nothing is found the defaults are returned.
func Load(explicitPath string) (Config, error) {
	if explicitPath != "" {
		return readConfig(explicitPath)
	}

	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), FileName)
		if _, err := os.Stat(p); err == nil {
			return readConfig(p)
		}
	}

	p := filepath.Join(DataDir(), FileName)
	if _, err := os.Stat(p); err == nil {
		return readConfig(p)
	}

	return Default(), nil
}

// DataDir returns the platform-specific directory for the configuration
// file and the preset database:
//   - Windows: %APPDATA%\tinnitus
//   - Unix:    ~/.config/tinnitus
//
// Falls back to os.TempDir()/tinnitus.
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, AppDirName)
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(home, ".config", AppDirName)
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
