package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testOptions struct {
	Config string

	Format     string `toml:"output.format" env:"FORMAT"`
	UACVersion string `toml:"analysis.uac_version" env:"UAC_VERSION"`
	Quiet      bool   `toml:"output.quiet" env:"QUIET"`
	Debounce   int    `toml:"watch.debounce_ms" env:"DEBOUNCE_MS"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromTOML(t *testing.T) {
	path := writeConfig(t, `
[output]
format = "summary"
quiet = true

[analysis]
uac_version = "2.0"

[watch]
debounce_ms = 250
`)
	opts := &testOptions{Config: path}
	if err := Load(opts, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if opts.Format != "summary" {
		t.Errorf("Format = %q, want \"summary\"", opts.Format)
	}
	if opts.UACVersion != "2.0" {
		t.Errorf("UACVersion = %q, want \"2.0\"", opts.UACVersion)
	}
	if !opts.Quiet {
		t.Error("Quiet = false, want true")
	}
	if opts.Debounce != 250 {
		t.Errorf("Debounce = %d, want 250", opts.Debounce)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "[output]\nformat = \"summary\"\n")
	t.Setenv(EnvPrefix+"FORMAT", "topology")

	opts := &testOptions{Config: path}
	if err := Load(opts, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if opts.Format != "topology" {
		t.Errorf("Format = %q, want env value \"topology\"", opts.Format)
	}
}

func TestMissingFileKeepsDefaults(t *testing.T) {
	opts := &testOptions{Config: "/nonexistent/config.toml", Format: "full"}
	if err := Load(opts, nil); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if opts.Format != "full" {
		t.Errorf("Format = %q, want untouched default", opts.Format)
	}
}

func TestBrokenTOMLIsAnError(t *testing.T) {
	path := writeConfig(t, "not toml [[[")
	opts := &testOptions{Config: path}
	if err := Load(opts, nil); err == nil {
		t.Error("Load accepted broken TOML")
	}
}

func TestFlagName(t *testing.T) {
	cases := map[string]string{
		"Format":     "format",
		"UACVersion": "uac-version",
		"Quiet":      "quiet",
	}
	for in, want := range cases {
		if got := flagName(in); got != want {
			t.Errorf("flagName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadLoggingConfig(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "debug"
format = "json"
parser = "warn"
`)
	cfg := LoadLoggingConfig(path)
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Modules["parser"] != "warn" {
		t.Errorf("module levels = %v, want parser=warn", cfg.Modules)
	}

	def := LoadLoggingConfig("")
	if def.Level != "info" || def.Format != "text" {
		t.Errorf("defaults = %+v", def)
	}
}
