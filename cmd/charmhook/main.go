// Command charmhook classifies the Juju hook it was invoked for and runs
// the matching handler.
//
// Usage:
//
//	JUJU_HOOK_NAME=install JUJU_UNIT_NAME=myapp/0 ... charmhook
//
// Settings are read from the YAML or JSON file named by CHARMHOOK_CONFIG.
// The metrics and tracing settings report through the global OpenTelemetry
// providers; this command installs none, so a wrapper that wants the data
// must set them before calling run.
// The command always exits 0: an unrecognized invocation is reported on
// stdout and logged, never treated as a failure.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/randalmurphal/charmhook/pkg/charmhook"
	"github.com/randalmurphal/charmhook/pkg/charmhook/config"
	"github.com/randalmurphal/charmhook/pkg/charmhook/dispatch"
	"github.com/randalmurphal/charmhook/pkg/charmhook/env"
	"github.com/randalmurphal/charmhook/pkg/charmhook/handlers"
	"github.com/randalmurphal/charmhook/pkg/charmhook/hook"
	"github.com/randalmurphal/charmhook/pkg/charmhook/journal"
	"github.com/randalmurphal/charmhook/pkg/charmhook/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, env.OS{}, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run handles one invocation and returns the process exit code.
func run(ctx context.Context, src env.Source, stdout, stderr io.Writer) int {
	s, cfgErr := config.Load(src)
	logger := observability.NewLogger(stderr, s.LogFormat, observability.ParseLevel(s.LogLevel))
	if cfgErr != nil {
		logger.Warn("settings not loaded, using defaults", slog.String("error", cfgErr.Error()))
	}

	// Instruments bind to otel's global providers, which are no-ops until
	// a wrapper installs an SDK.
	dc := dispatch.Config{Logger: logger}
	if s.Metrics {
		dc.Metrics = observability.NewMetricsRecorder()
	}
	if s.Tracing {
		dc.Spans = observability.NewSpanManager()
	}
	if s.JournalPath != "" {
		store, err := journal.NewSQLiteStore(s.JournalPath)
		if err != nil {
			observability.LogJournalError(logger, "open", err)
		} else {
			defer store.Close()
			dc.Journal = store
		}
	}

	d := dispatch.New(dc)
	handlers.Register(d, stdout, s)

	out := charmhook.Run(ctx, src, d,
		charmhook.WithLogger(logger),
		charmhook.WithMetrics(s.Metrics),
		charmhook.WithTracing(s.Tracing),
	)

	fmt.Fprintf(stdout, "Hello Juju: %s\n", hook.Render(out.Event))
	return 0
}
