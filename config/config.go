// Package config loads and saves the gridloom option table as a TOML
// file under ~/.config/gridloom, falling back to defaults when the
// file is absent, and watches it for live edits.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"gridloom/engine"
)

// ControllerConfig selects the pad controller.
type ControllerConfig struct {
	PortName    string `toml:"port_name"`
	AutoConnect bool   `toml:"auto_connect"`
}

// EngineConfig is the recognized engine option surface.
type EngineConfig struct {
	// Follow is one of "off", "track", "track+slot".
	Follow      string `toml:"follow"`
	Polyrhythms bool   `toml:"polyrhythms"`
	// Page sizes: 0 means automatic (the grid dimension), otherwise
	// 1..16.
	PageWidth  int  `toml:"page_width"`
	PageHeight int  `toml:"page_height"`
	AutoStart  bool `toml:"auto_start"`
	// HoldToCopy maps holding a pad to whole-region mode. Takes
	// effect at the next engine start.
	HoldToCopy bool `toml:"hold_to_copy"`
	HoldTicks  int  `toml:"hold_ticks"`
}

// UIConfig stores terminal UI preferences.
type UIConfig struct {
	PalettePath string `toml:"palette_path"`
}

// Config is the whole configuration file.
type Config struct {
	Controller ControllerConfig `toml:"controller"`
	Engine     EngineConfig     `toml:"engine"`
	UI         UIConfig         `toml:"ui"`
	Debug      bool             `toml:"debug"`
}

// Default returns the defaults used when no file exists.
func Default() Config {
	return Config{
		Controller: ControllerConfig{
			PortName:    "Launchpad X LPX MIDI",
			AutoConnect: true,
		},
		Engine: EngineConfig{
			Follow:      "track",
			Polyrhythms: true,
			AutoStart:   true,
			HoldToCopy:  true,
			HoldTicks:   10,
		},
	}
}

// Dir returns the config directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gridloom"), nil
}

// DefaultPath returns the config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config at path, or returns defaults if it does not
// exist.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes the config to path, creating the directory if needed.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the enumerated option values.
func (c Config) Validate() error {
	switch c.Engine.Follow {
	case "", "off", "track", "track+slot":
	default:
		return fmt.Errorf("config: unknown follow mode %q", c.Engine.Follow)
	}
	if err := validPageSize("page_width", c.Engine.PageWidth); err != nil {
		return err
	}
	if err := validPageSize("page_height", c.Engine.PageHeight); err != nil {
		return err
	}
	return nil
}

func validPageSize(name string, v int) error {
	if v < 0 || v > 16 {
		return fmt.Errorf("config: %s must be 0 (automatic) or 1..16, got %d", name, v)
	}
	return nil
}

// Options converts the file representation into engine options.
func (c Config) Options() engine.Options {
	opts := engine.Options{
		Polyrhythms: c.Engine.Polyrhythms,
		PageWidth:   c.Engine.PageWidth,
		PageHeight:  c.Engine.PageHeight,
		AutoStart:   c.Engine.AutoStart,
		HoldToCopy:  c.Engine.HoldToCopy,
		HoldTicks:   int64(c.Engine.HoldTicks),
	}
	switch c.Engine.Follow {
	case "track":
		opts.Follow = engine.FollowTrack
	case "track+slot":
		opts.Follow = engine.FollowTrackSlot
	default:
		opts.Follow = engine.FollowOff
	}
	return opts
}
