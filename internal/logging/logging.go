// Package logging sets up the process-wide slog logger shared by the CLI, the
// API and the worker.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const redacted = "[redacted]"

// Attributes named after one of these, alone or as a "_" suffix, are masked.
var secretKeys = []string{"api_key", "apikey", "token", "secret", "password", "authorization"}

// Init installs the default logger. Output goes to w when given, stderr
// otherwise. Any format other than "json" yields the text handler.
func Init(level slog.Level, format string, w ...io.Writer) {
	var out io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		out = w[0]
	}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: redact}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(h))
}

func redact(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, s := range secretKeys {
		if key == s || strings.HasSuffix(key, "_"+s) {
			return slog.String(a.Key, redacted)
		}
	}
	return a
}

// ParseLevel maps FACTFLOW_LOG_LEVEL values onto slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New tags a logger with the package that owns it.
func New(component string) *slog.Logger {
	return slog.Default().With(slog.String("component", component))
}

// ForRun scopes lg to one investigation.
func ForRun(lg *slog.Logger, runID, caseID string) *slog.Logger {
	return lg.With(slog.String("run_id", runID), slog.String("case_id", caseID))
}
