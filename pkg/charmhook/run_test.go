package charmhook_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/randalmurphal/charmhook/pkg/charmhook"
	"github.com/randalmurphal/charmhook/pkg/charmhook/dispatch"
	"github.com/randalmurphal/charmhook/pkg/charmhook/env"
	"github.com/randalmurphal/charmhook/pkg/charmhook/hook"
	"github.com/randalmurphal/charmhook/pkg/charmhook/journal"
)

func baseEnv(extra map[string]string) env.Map {
	m := env.Map{
		env.ModelName:   "foo",
		env.ModelUUID:   "u1",
		env.UnitName:    "myapp/3",
		env.JujuVersion: "2.9",
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func TestRun_Install(t *testing.T) {
	d := dispatch.New(dispatch.Config{})
	var got hook.Event
	d.Register(hook.KindInstall, "on_install", dispatch.HandlerFunc(func(_ context.Context, evt hook.Event) error {
		got = evt
		return nil
	}))

	out := charmhook.Run(context.Background(), baseEnv(map[string]string{env.HookName: "install"}), d)

	require.IsType(t, hook.Install{}, out.Event)
	assert.Equal(t, out.Event, got)
	assert.True(t, out.Dispatch.Fired)
	assert.Equal(t, "on_install", out.Dispatch.Handler)

	_, err := uuid.Parse(out.InvocationID)
	assert.NoError(t, err, "generated invocation id should be a uuid")
}

func TestRun_Unrecognized(t *testing.T) {
	d := dispatch.New(dispatch.Config{})
	d.Register(hook.KindInstall, "on_install", dispatch.HandlerFunc(func(context.Context, hook.Event) error {
		t.Fatal("handler must not run")
		return nil
	}))

	out := charmhook.Run(context.Background(), env.Map{"PATH": "/bin"}, d)

	u, ok := out.Event.(hook.Unrecognized)
	require.True(t, ok)
	assert.Equal(t, hook.ReasonInvalidContext, u.Reason)
	assert.Equal(t, map[string]string{"PATH": "/bin"}, u.Env)
	assert.False(t, out.Dispatch.Fired)
}

func TestRun_InvocationIDReachesJournal(t *testing.T) {
	store := journal.NewMemoryStore()
	d := dispatch.New(dispatch.Config{Journal: store})

	src := baseEnv(map[string]string{env.HookName: "update-status"})
	out := charmhook.Run(context.Background(), src, d, charmhook.WithInvocationID("replay-7"))
	assert.Equal(t, "replay-7", out.InvocationID)

	rec, err := store.Get("replay-7")
	require.NoError(t, err)
	assert.Equal(t, "update-status", rec.Kind)
	assert.Equal(t, "myapp/3", rec.Unit)
	assert.True(t, rec.Recognized)
}

func TestRun_LoggerEnriched(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// hook name matches but the relation id is missing, so the candidate
	// is skipped and logged through the enriched logger.
	src := baseEnv(map[string]string{
		env.HookName:  "db-relation-created",
		env.Relation:  "db",
		env.RemoteApp: "pg",
	})
	out := charmhook.Run(context.Background(), src, dispatch.New(dispatch.Config{}),
		charmhook.WithLogger(logger), charmhook.WithInvocationID("inv-log"))

	assert.IsType(t, hook.Unrecognized{}, out.Event)
	assert.Contains(t, buf.String(), "hook candidate skipped")
	assert.Contains(t, buf.String(), "invocation_id=inv-log")
	assert.Contains(t, buf.String(), "unit=myapp/3")
}

func TestRun_Observability(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	origTP, origMP := otel.GetTracerProvider(), otel.GetMeterProvider()
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	t.Cleanup(func() {
		otel.SetTracerProvider(origTP)
		otel.SetMeterProvider(origMP)
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	d := dispatch.New(dispatch.Config{})
	src := baseEnv(map[string]string{env.HookName: "start"})
	charmhook.Run(context.Background(), src, d,
		charmhook.WithTracing(true),
		charmhook.WithMetrics(true),
		charmhook.WithInvocationID("inv-otel"),
	)

	var names []string
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
		if s.Name == "charmhook.invocation" {
			assert.Contains(t, s.Attributes, attribute.String("hook.name", "start"))
			assert.Contains(t, s.Attributes, attribute.String("invocation.id", "inv-otel"))
		}
	}
	assert.Contains(t, names, "charmhook.invocation")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "charmhook.classifications" {
				found = true
			}
		}
	}
	assert.True(t, found, "classification counter should be recorded")
}
