// Package observability provides logging, metrics and tracing for hook
// invocations.
//
// Features:
//   - Structured logging via slog
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Metrics and tracing are opt-in and have no-op implementations when
// disabled. Every logging helper accepts a nil logger.
package observability

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/randalmurphal/charmhook/pkg/charmhook/hook"
)

// NewLogger builds a logger writing to w. format is "json" or "text";
// anything else falls back to text.
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// EnrichLogger adds the invocation ID and unit name to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "5f0c...", "myapp/3")
//	enriched.Info("doing work") // includes invocation_id, unit
func EnrichLogger(logger *slog.Logger, invocationID, unit string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("invocation_id", invocationID),
		slog.String("unit", unit),
	)
}

// LogEvent records the full classified event at INFO, or WARN when the
// event is Unrecognized.
func LogEvent(logger *slog.Logger, evt hook.Event) {
	if logger == nil {
		return
	}
	fields := hook.Fields(evt)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}

	if _, ok := evt.(hook.Unrecognized); ok {
		logger.Warn("hook unrecognized", attrs...)
		return
	}
	logger.Info("hook classified", attrs...)
}

// LogDispatch logs the outcome of dispatching an event.
func LogDispatch(logger *slog.Logger, kind, handler string, fired bool, duration time.Duration) {
	if logger == nil {
		return
	}
	if !fired {
		logger.Debug("no handler for hook",
			slog.String("kind", kind),
		)
		return
	}
	logger.Info("hook handled",
		slog.String("kind", kind),
		slog.String("handler", handler),
		slog.Float64("duration_ms", Milliseconds(duration)),
	)
}

// LogHandlerError logs a handler failure. Handler failures never change
// the process exit status.
func LogHandlerError(logger *slog.Logger, kind, handler string, err error) {
	if logger == nil {
		return
	}
	logger.Error("hook handler failed",
		slog.String("kind", kind),
		slog.String("handler", handler),
		slog.String("error", err.Error()),
	)
}

// LogJournalError logs a journal failure (non-fatal).
func LogJournalError(logger *slog.Logger, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// Milliseconds converts d to fractional milliseconds at microsecond
// resolution, the unit of duration_ms and charmhook.handler.latency_ms.
func Milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
