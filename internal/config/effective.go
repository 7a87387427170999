package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	if raw.ScaleFactor != nil {
		cfg.ScaleFactor = *raw.ScaleFactor
	}
	if raw.CursorPollIntervalMs != nil {
		cfg.CursorPollIntervalMs = *raw.CursorPollIntervalMs
	}
	if raw.EventBuffer != nil {
		cfg.EventBuffer = *raw.EventBuffer
	}
	if s := raw.Shortcuts; s != nil {
		apply := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		apply(&cfg.Shortcuts.Toggle, s.Toggle)
		apply(&cfg.Shortcuts.Clear, s.Clear)
		apply(&cfg.Shortcuts.Undo, s.Undo)
		apply(&cfg.Shortcuts.Redo, s.Redo)
		apply(&cfg.Shortcuts.Spotlight, s.Spotlight)
		apply(&cfg.Shortcuts.DrawToggle, s.DrawToggle)
	}
	return cfg
}
