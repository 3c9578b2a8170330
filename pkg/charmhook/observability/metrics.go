package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records charmhook metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordClassification records one classification pass.
	RecordClassification(ctx context.Context, kind string, recognized bool)

	// RecordDispatch records a dispatch and, when a handler fired, its
	// latency and error status.
	RecordDispatch(ctx context.Context, kind, handler string, fired bool, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	classifications metric.Int64Counter
	dispatches      metric.Int64Counter
	handlerLatency  metric.Float64Histogram
	handlerErrors   metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("charmhook")

	classifications, err := meter.Int64Counter("charmhook.classifications",
		metric.WithDescription("Number of classified hook invocations"),
	)
	if err != nil {
		return nil, err
	}

	dispatches, err := meter.Int64Counter("charmhook.dispatches",
		metric.WithDescription("Number of dispatched events"),
	)
	if err != nil {
		return nil, err
	}

	handlerLatency, err := meter.Float64Histogram("charmhook.handler.latency_ms",
		metric.WithDescription("Handler latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	handlerErrors, err := meter.Int64Counter("charmhook.handler.errors",
		metric.WithDescription("Number of handler errors"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		classifications: classifications,
		dispatches:      dispatches,
		handlerLatency:  handlerLatency,
		handlerErrors:   handlerErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses the global OTel
// meter provider. If initialization fails, it returns a no-op recorder.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordClassification implements MetricsRecorder.
func (m *otelMetrics) RecordClassification(ctx context.Context, kind string, recognized bool) {
	m.classifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("recognized", recognized),
	))
}

// RecordDispatch implements MetricsRecorder.
func (m *otelMetrics) RecordDispatch(ctx context.Context, kind, handler string, fired bool, duration time.Duration, err error) {
	m.dispatches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("fired", fired),
	))
	if !fired {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("handler", handler),
	)
	m.handlerLatency.Record(ctx, Milliseconds(duration), attrs)
	if err != nil {
		m.handlerErrors.Add(ctx, 1, attrs)
	}
}
