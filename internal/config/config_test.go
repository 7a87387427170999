package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.CursorPollInterval() != 16*time.Millisecond {
		t.Fatalf("poll interval = %v", cfg.CursorPollInterval())
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" {
		t.Fatalf("File = %q, want empty", res.File)
	}
	if res.Config.Shortcuts != DefaultConfig().Shortcuts {
		t.Fatalf("shortcuts = %+v", res.Config.Shortcuts)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "info" {
		t.Fatalf("log_level = %q", res.Config.LogLevel)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
scale_factor: 1.5
cursor_poll_interval_ms: 8
shortcuts:
  redo: ""
  toggle: Mod4-Control-t
`)
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
	if cfg.ScaleFactor != 1.5 || cfg.CursorPollIntervalMs != 8 {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if cfg.Shortcuts.Redo != "" || cfg.Shortcuts.Toggle != "Mod4-Control-t" {
		t.Fatalf("shortcuts = %+v", cfg.Shortcuts)
	}
	// Untouched shortcuts keep their defaults.
	if cfg.Shortcuts.Clear != "Mod4-Shift-c" {
		t.Fatalf("clear = %q", cfg.Shortcuts.Clear)
	}
}

func TestLoadFromPath_UnknownFieldRejected(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "hotkey: Mod4-Mod1-t\n"))
	if err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestLoadFromPath_ValidationErrorCarriesSource(t *testing.T) {
	path := writeConfig(t, "log_level: info\nevent_buffer: 0\n")
	_, err := LoadFromPath(path)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Path != "event_buffer" || verr.Source.Line != 2 {
		t.Fatalf("verr = %+v", verr)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("error %q should point at the file", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"relative log file", func(c *Config) { c.LogFile = "mira.log" }, "log_file"},
		{"scale", func(c *Config) { c.ScaleFactor = -1 }, "scale_factor"},
		{"interval", func(c *Config) { c.CursorPollIntervalMs = 0 }, "cursor_poll_interval_ms"},
		{"buffer", func(c *Config) { c.EventBuffer = 1 << 20 }, "event_buffer"},
		{"required shortcut", func(c *Config) { c.Shortcuts.Clear = " " }, "shortcuts.clear"},
		{"bad modifier", func(c *Config) { c.Shortcuts.Undo = "Super-Shift-z" }, "shortcuts.undo"},
		{"no key", func(c *Config) { c.Shortcuts.Spotlight = "Mod4-" }, "shortcuts.spotlight"},
		{"duplicate", func(c *Config) { c.Shortcuts.DrawToggle = "mod4-shift-X" }, "shortcuts.draw_toggle"},
		{"duplicate reordered", func(c *Config) { c.Shortcuts.DrawToggle = "Shift-Mod4-x" }, "shortcuts.draw_toggle"},
		{"duplicate ctrl alias", func(c *Config) {
			c.Shortcuts.Toggle = "Control-Mod4-t"
			c.Shortcuts.Clear = "Mod4-Ctrl-t"
		}, "shortcuts.clear"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("path = %q, want %q", verr.Path, tt.path)
			}
		})
	}
}

func TestRedoMayBeDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shortcuts.Redo = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestYAMLRoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warning"
	data, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	res, err := LoadFromPath(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("load printed config: %v", err)
	}
	if *res.Config != *cfg {
		t.Fatalf("loaded %+v, want %+v", res.Config, cfg)
	}
}

func TestDefaultConfigPathHonorsEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/mira-test.yaml")
	got, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("DefaultConfigPath: %v", err)
	}
	if got != "/tmp/mira-test.yaml" {
		t.Fatalf("path = %q", got)
	}
}

func TestLoadResultSourceOf(t *testing.T) {
	path := writeConfig(t, "shortcuts:\n  clear: Mod4-Shift-k\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	src := res.SourceOf("shortcuts.clear")
	if src.Kind != SourceFile || src.File != path || src.Line != 2 {
		t.Fatalf("shortcuts.clear source = %+v", src)
	}
	if got := res.SourceOf("log_level").Kind; got != SourceDefault {
		t.Fatalf("log_level source = %q, want default", got)
	}
}

func TestLoadFromPath_NonMappingRejected(t *testing.T) {
	if _, err := LoadFromPath(writeConfig(t, "- a\n- b\n")); err == nil {
		t.Fatal("expected error for list document")
	}
}

func TestNormalizeKeySequence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mod4-Shift-x", "mod4-shift-x"},
		{"Shift-Mod4-X", "mod4-shift-x"},
		{"Ctrl-Mod1-Delete", "control-mod1-delete"},
		{"F12", "f12"},
	}
	for _, tt := range tests {
		if got := normalizeKeySequence(tt.in); got != tt.want {
			t.Errorf("normalizeKeySequence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
