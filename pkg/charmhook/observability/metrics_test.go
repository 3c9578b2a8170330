package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// setupMetricsTest installs a test meter provider and returns its reader.
func setupMetricsTest(t *testing.T) *sdkmetric.ManualReader {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	original := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)

	t.Cleanup(func() {
		otel.SetMeterProvider(original)
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	})
	return reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the counter value for the datapoint carrying key=value.
func sumFor(t *testing.T, m *metricdata.Metrics, key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "Expected Sum type")
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attributeKey(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestNewMetricsRecorder(t *testing.T) {
	setupMetricsTest(t)

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)

	_, isNoop := recorder.(NoopMetrics)
	assert.False(t, isNoop, "Expected real metrics recorder, got noop")
}

func TestRecordClassification(t *testing.T) {
	reader := setupMetricsTest(t)

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordClassification(ctx, "install", true)
	m.RecordClassification(ctx, "install", true)
	m.RecordClassification(ctx, "unrecognized", false)

	rm := collectMetrics(t, reader)
	metric := findMetric(rm, "charmhook.classifications")
	require.NotNil(t, metric)
	assert.Equal(t, int64(2), sumFor(t, metric, "kind", "install"))
	assert.Equal(t, int64(1), sumFor(t, metric, "kind", "unrecognized"))
}

func TestRecordDispatch(t *testing.T) {
	reader := setupMetricsTest(t)

	m, err := newOtelMetrics()
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("fired handler records latency", func(t *testing.T) {
		m.RecordDispatch(ctx, "install", "on_install", true, 20*time.Millisecond, nil)

		rm := collectMetrics(t, reader)
		require.NotNil(t, findMetric(rm, "charmhook.dispatches"))

		latency := findMetric(rm, "charmhook.handler.latency_ms")
		require.NotNil(t, latency)
		hist, ok := latency.Data.(metricdata.Histogram[float64])
		require.True(t, ok, "Expected Histogram type")
		require.NotEmpty(t, hist.DataPoints)
		assert.Equal(t, 20.0, hist.DataPoints[0].Sum)
	})

	t.Run("handler error counted", func(t *testing.T) {
		m.RecordDispatch(ctx, "stop", "on_stop", true, time.Millisecond, errors.New("boom"))

		rm := collectMetrics(t, reader)
		errs := findMetric(rm, "charmhook.handler.errors")
		require.NotNil(t, errs)
		assert.Equal(t, int64(1), sumFor(t, errs, "handler", "on_stop"))
	})

	t.Run("unfired dispatch skips latency", func(t *testing.T) {
		m.RecordDispatch(ctx, "remove", "", false, 0, nil)

		rm := collectMetrics(t, reader)
		dispatches := findMetric(rm, "charmhook.dispatches")
		require.NotNil(t, dispatches)
		assert.Equal(t, int64(1), sumFor(t, dispatches, "kind", "remove"))

		latency := findMetric(rm, "charmhook.handler.latency_ms")
		require.NotNil(t, latency)
		hist := latency.Data.(metricdata.Histogram[float64])
		for _, dp := range hist.DataPoints {
			v, _ := dp.Attributes.Value(attributeKey("kind"))
			assert.NotEqual(t, "remove", v.AsString())
		}
	})
}
