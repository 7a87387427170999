package config

// RawShortcutsConfig mirrors ShortcutsConfig with presence tracking.
type RawShortcutsConfig struct {
	Toggle     *string `yaml:"toggle"`
	Clear      *string `yaml:"clear"`
	Undo       *string `yaml:"undo"`
	Redo       *string `yaml:"redo"`
	Spotlight  *string `yaml:"spotlight"`
	DrawToggle *string `yaml:"draw_toggle"`
}

// RawConfig is the on-disk shape. Nil fields keep their default.
type RawConfig struct {
	Display              *string             `yaml:"display"`
	LogLevel             *string             `yaml:"log_level"`
	LogFile              *string             `yaml:"log_file"`
	ScaleFactor          *float64            `yaml:"scale_factor"`
	CursorPollIntervalMs *int                `yaml:"cursor_poll_interval_ms"`
	EventBuffer          *int                `yaml:"event_buffer"`
	Shortcuts            *RawShortcutsConfig `yaml:"shortcuts"`
}
