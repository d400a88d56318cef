// Package logging configures the structured loggers used across the
// paging subsystem.
package logging

import (
	"log/slog"
	"os"
)

// Init builds a text-handler slog.Logger at the given level, tagged with
// module, the way the teacher's InicializarLogger tags every log line
// with the owning module's name.
func Init(level string, module string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler).With("module", module)
}

// Noop returns a logger that discards everything, for tests that don't
// care about log output.
func Noop() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
