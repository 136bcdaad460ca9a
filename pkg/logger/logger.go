package logger

import (
	"log/slog"
	"os"
	"strings"
)

func New(level string, handler func(level slog.Level) slog.Handler) *slog.Logger {
	h := handler(getSlogLevel(level))
	return slog.New(h)
}

// HandlerFor picks the record format: "json" for Cloud Run, anything else is
// human-readable text on stderr for local runs.
func HandlerFor(format string) func(level slog.Level) slog.Handler {
	if strings.EqualFold(format, "json") {
		return NewCloudRunHandler
	}
	return NewConsoleHandler
}

func NewConsoleHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}

// ---- Helpers ----
func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
