package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger builds the process-wide logger. Both binaries log JSON to
// stdout and stamp every record with the service name so api and worker
// lines can be separated in a shared stream.
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("service", service)
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// parseLevel treats anything it does not recognize as info rather than
// failing startup over a typo in LOG_LEVEL.
func parseLevel(level string) slog.Level {
	if parsed, ok := levelNames[strings.ToLower(strings.TrimSpace(level))]; ok {
		return parsed
	}
	return slog.LevelInfo
}
