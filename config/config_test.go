package config

import (
	"os"
	"path/filepath"
	"testing"

	"gridloom/engine"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load missing file: %v", err)
	}
	if cfg != Default() {
		t.Error("missing file did not yield defaults")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
debug = true

[engine]
follow = "track+slot"
polyrhythms = false
page_width = 4
hold_ticks = 20

[controller]
port_name = "Some Pad"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("debug override lost")
	}
	if cfg.Engine.Follow != "track+slot" {
		t.Errorf("follow = %q, want track+slot", cfg.Engine.Follow)
	}
	if cfg.Engine.Polyrhythms {
		t.Error("polyrhythms override lost")
	}
	if cfg.Engine.PageWidth != 4 {
		t.Errorf("page_width = %d, want 4", cfg.Engine.PageWidth)
	}
	if cfg.Controller.PortName != "Some Pad" {
		t.Errorf("port_name = %q, want Some Pad", cfg.Controller.PortName)
	}
	// Untouched fields keep their defaults.
	if !cfg.Engine.HoldToCopy {
		t.Error("unset hold_to_copy lost its default")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unknown follow", "[engine]\nfollow = \"sideways\"\n"},
		{"page width too large", "[engine]\npage_width = 99\n"},
		{"negative page height", "[engine]\npage_height = -1\n"},
		{"broken toml", "[engine\n"},
	}
	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(tc.content), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := Load(path)
		if err == nil {
			t.Errorf("%s: Load succeeded, want error", tc.name)
		}
		if cfg != Default() {
			t.Errorf("%s: invalid file did not fall back to defaults", tc.name)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	want := Default()
	want.Engine.Follow = "off"
	want.Engine.PageHeight = 2
	want.Debug = true

	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestOptionsMapping(t *testing.T) {
	cases := []struct {
		follow string
		want   engine.FollowMode
	}{
		{"off", engine.FollowOff},
		{"", engine.FollowOff},
		{"track", engine.FollowTrack},
		{"track+slot", engine.FollowTrackSlot},
	}
	for _, tc := range cases {
		cfg := Default()
		cfg.Engine.Follow = tc.follow
		if got := cfg.Options().Follow; got != tc.want {
			t.Errorf("follow %q -> %v, want %v", tc.follow, got, tc.want)
		}
	}

	cfg := Default()
	cfg.Engine.HoldTicks = 12
	cfg.Engine.PageWidth = 4
	opts := cfg.Options()
	if opts.HoldTicks != 12 {
		t.Errorf("HoldTicks = %d, want 12", opts.HoldTicks)
	}
	if opts.PageWidth != 4 {
		t.Errorf("PageWidth = %d, want 4", opts.PageWidth)
	}
}
