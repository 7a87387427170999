package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ShortcutsConfig holds X11 key sequences (xgbutil keybind syntax, e.g.
// "Mod4-Shift-x"). Redo may be empty to disable it.
type ShortcutsConfig struct {
	Toggle     string `yaml:"toggle"`
	Clear      string `yaml:"clear"`
	Undo       string `yaml:"undo"`
	Redo       string `yaml:"redo"`
	Spotlight  string `yaml:"spotlight"`
	DrawToggle string `yaml:"draw_toggle"`
}

// Config is the effective daemon configuration.
type Config struct {
	// Display is the X display to connect to; empty uses $DISPLAY.
	Display  string `yaml:"display"`
	LogLevel string `yaml:"log_level"`
	// LogFile sends daemon logs to a size-rotated file instead of stderr.
	LogFile string `yaml:"log_file"`
	// ScaleFactor overrides the Xft.dpi derived scale when > 0.
	ScaleFactor          float64         `yaml:"scale_factor"`
	CursorPollIntervalMs int             `yaml:"cursor_poll_interval_ms"`
	EventBuffer          int             `yaml:"event_buffer"`
	Shortcuts            ShortcutsConfig `yaml:"shortcuts"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:             "info",
		CursorPollIntervalMs: 16,
		EventBuffer:          256,
		Shortcuts: ShortcutsConfig{
			Toggle:     "Mod4-Shift-x",
			Clear:      "Mod4-Shift-c",
			Undo:       "Mod4-Shift-z",
			Redo:       "Mod4-Shift-y",
			Spotlight:  "Mod4-Shift-s",
			DrawToggle: "Mod4-Shift-d",
		},
	}
}

// CursorPollInterval returns the cursor sampling period.
func (c *Config) CursorPollInterval() time.Duration {
	return time.Duration(c.CursorPollIntervalMs) * time.Millisecond
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) Validate() error {
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.LogFile != "" && !filepath.IsAbs(c.LogFile) {
		return &ValidationError{Path: "log_file", Err: fmt.Errorf("log_file must be an absolute path")}
	}
	if c.ScaleFactor < 0 || c.ScaleFactor > 8 {
		return &ValidationError{Path: "scale_factor", Err: fmt.Errorf("scale_factor must be between 0 (auto) and 8")}
	}
	if c.CursorPollIntervalMs < 1 || c.CursorPollIntervalMs > 1000 {
		return &ValidationError{Path: "cursor_poll_interval_ms", Err: fmt.Errorf("cursor_poll_interval_ms must be between 1 and 1000")}
	}
	if c.EventBuffer < 1 || c.EventBuffer > 65536 {
		return &ValidationError{Path: "event_buffer", Err: fmt.Errorf("event_buffer must be between 1 and 65536")}
	}
	return c.Shortcuts.validate()
}

func (s ShortcutsConfig) validate() error {
	fields := []struct {
		name     string
		value    string
		optional bool
	}{
		{"toggle", s.Toggle, false},
		{"clear", s.Clear, false},
		{"undo", s.Undo, false},
		{"redo", s.Redo, true},
		{"spotlight", s.Spotlight, false},
		{"draw_toggle", s.DrawToggle, false},
	}

	seen := make(map[string]string)
	for _, f := range fields {
		path := "shortcuts." + f.name
		if strings.TrimSpace(f.value) == "" {
			if f.optional {
				continue
			}
			return &ValidationError{Path: path, Err: fmt.Errorf("%s shortcut is required", f.name)}
		}
		if err := validateKeySequence(f.value); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
		norm := normalizeKeySequence(f.value)
		if other, dup := seen[norm]; dup {
			return &ValidationError{Path: path, Err: fmt.Errorf("%q is already bound to %s", f.value, other)}
		}
		seen[norm] = f.name
	}
	return nil
}

var knownModifiers = map[string]struct{}{
	"shift": {}, "lock": {}, "control": {}, "ctrl": {},
	"mod1": {}, "mod2": {}, "mod3": {}, "mod4": {}, "mod5": {}, "any": {},
}

// normalizeKeySequence folds case, the ctrl alias and modifier order, so
// "Shift-Mod4-x" and "mod4-shift-X" compare equal.
func normalizeKeySequence(seq string) string {
	parts := strings.Split(strings.ToLower(seq), "-")
	mods := parts[:len(parts)-1]
	for i, m := range mods {
		if m == "ctrl" {
			mods[i] = "control"
		}
	}
	sort.Strings(mods)
	return strings.Join(parts, "-")
}

// validateKeySequence checks the modifier-key shape of a keybind string
// without an X connection; the key name itself is resolved at grab time.
func validateKeySequence(seq string) error {
	parts := strings.Split(seq, "-")
	key := parts[len(parts)-1]
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key sequence %q has no key", seq)
	}
	for _, mod := range parts[:len(parts)-1] {
		if _, ok := knownModifiers[strings.ToLower(mod)]; !ok {
			return fmt.Errorf("key sequence %q has unknown modifier %q", seq, mod)
		}
	}
	return nil
}
