package app

import (
	"io"
	"log/slog"

	"github.com/vk/sectiongrid/internal/config"
)

// newLogger creates a slog.Logger for the given settings. It does not set
// the global logger, allowing for isolated logger instances.
func newLogger(s config.LogSettings, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch s.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if s.Format == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
