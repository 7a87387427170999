// Package logging opens the daemon's log destination.
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for file logs.
const (
	MaxSizeMB  = 20
	MaxBackups = 5
	MaxAgeDays = 7
)

// Open returns the writer daemon logs go to: stderr when path is empty,
// otherwise a size-rotated file. closeFn releases the file.
func Open(path string) (w io.Writer, closeFn func() error) {
	if path == "" {
		return os.Stderr, func() error { return nil }
	}
	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
		MaxAge:     MaxAgeDays,
		Compress:   true,
	}
	return rot, rot.Close
}

// Setup points the standard logger at w and returns a text slog logger on the
// same writer.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	log.SetOutput(w)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
