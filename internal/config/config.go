// Package config loads the drumseq settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/icco/drumseq/internal/sequencer"
)

// Output selects the playback engine.
type Output string

const (
	OutputSynth Output = "synth"
	OutputMIDI  Output = "midi"
)

// Config is the settings file. Zero fields fall back to DefaultConfig
// values when converted to sequencer options.
type Config struct {
	BPM         int    `json:"bpm"`
	Patterns    int    `json:"patterns"`
	Tracks      int    `json:"tracks"`
	Steps       int    `json:"steps"`
	LookaheadMs int    `json:"lookaheadMs"`
	IntervalMs  int    `json:"intervalMs"`
	Output      Output `json:"output"`
	MIDIPort    string `json:"midiPort,omitempty"`
	MIDIChannel int    `json:"midiChannel"`
	Kit         string `json:"kit"`
	StorageDir  string `json:"storageDir,omitempty"`
	Autosave    string `json:"autosave"`
	Listen      string `json:"listen"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		BPM:         120,
		Patterns:    4,
		Tracks:      8,
		Steps:       16,
		LookaheadMs: 100,
		IntervalMs:  25,
		Output:      OutputSynth,
		MIDIChannel: 10,
		Kit:         "gm",
		Autosave:    "autosave",
		Listen:      ":8080",
	}
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".config", "drumseq"), nil
}

// Path returns the default config.json location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields DefaultConfig. Fields absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path) //nolint:gosec // user supplied config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path, or the default location when path is empty.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// SessionDir is where saved sessions live: StorageDir, or a sessions
// directory next to the config file.
func (c *Config) SessionDir() (string, error) {
	if c.StorageDir != "" {
		return c.StorageDir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

// Options converts the config into sequencer options.
func (c *Config) Options() sequencer.Options {
	opts := sequencer.DefaultOptions()
	if c.BPM > 0 {
		opts.BPM = c.BPM
	}
	if c.Patterns > 0 {
		opts.Patterns = c.Patterns
	}
	if c.Tracks > 0 {
		opts.Tracks = c.Tracks
	}
	if c.Steps > 0 {
		opts.Steps = c.Steps
	}
	if c.LookaheadMs > 0 {
		opts.Lookahead = time.Duration(c.LookaheadMs) * time.Millisecond
	}
	if c.IntervalMs > 0 {
		opts.Interval = time.Duration(c.IntervalMs) * time.Millisecond
	}
	return opts
}
