package charmhook

import (
	"log/slog"

	"github.com/randalmurphal/charmhook/pkg/charmhook/observability"
)

// runConfig holds configuration for one Run.
type runConfig struct {
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	invocationID string
}

func defaultRunConfig() runConfig {
	return runConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// RunOption configures Run.
type RunOption func(*runConfig)

// WithLogger sets the logger for classification and dispatch logs.
// The logger is enriched with the invocation ID and unit name.
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics through the global meter
// provider. Default: disabled.
func WithMetrics(enabled bool) RunOption {
	return func(c *runConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithTracing enables the invocation span through the global tracer
// provider. Default: disabled.
func WithTracing(enabled bool) RunOption {
	return func(c *runConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithInvocationID sets the invocation ID instead of generating one.
// Empty IDs are ignored.
//
// Example:
//
//	out := charmhook.Run(ctx, src, d, charmhook.WithInvocationID("replay-7"))
func WithInvocationID(id string) RunOption {
	return func(c *runConfig) {
		if id != "" {
			c.invocationID = id
		}
	}
}
