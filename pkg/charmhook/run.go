package charmhook

import (
	"context"

	"github.com/google/uuid"

	"github.com/randalmurphal/charmhook/pkg/charmhook/dispatch"
	"github.com/randalmurphal/charmhook/pkg/charmhook/env"
	"github.com/randalmurphal/charmhook/pkg/charmhook/hook"
	"github.com/randalmurphal/charmhook/pkg/charmhook/observability"
)

// Outcome is the result of one Run.
type Outcome struct {
	InvocationID string
	Event        hook.Event
	Dispatch     dispatch.Result
}

// Run classifies the invocation described by src and dispatches it on d.
// It never fails; an environment that matches nothing is dispatched as
// hook.Unrecognized, which no handler is registered for.
func Run(ctx context.Context, src env.Source, d *dispatch.Dispatcher, opts ...RunOption) Outcome {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.invocationID == "" {
		cfg.invocationID = uuid.NewString()
	}

	unit, _ := src.Lookup(env.UnitName)
	logger := observability.EnrichLogger(cfg.logger, cfg.invocationID, unit)

	ctx, span := cfg.spans.StartInvocationSpan(ctx, hookName(src), cfg.invocationID)
	ctx = dispatch.WithInvocationID(ctx, cfg.invocationID)

	evt := hook.NewClassifier(hook.WithLogger(logger)).Classify(src)
	_, unrecognized := evt.(hook.Unrecognized)
	cfg.metrics.RecordClassification(ctx, evt.Kind().String(), !unrecognized)

	res := d.Dispatch(ctx, evt)
	cfg.spans.EndSpanWithError(span, res.Err)

	return Outcome{
		InvocationID: cfg.invocationID,
		Event:        evt,
		Dispatch:     res,
	}
}

// hookName is the raw name the agent gave this invocation.
func hookName(src env.Source) string {
	if name, ok := src.Lookup(env.HookName); ok && name != "" {
		return name
	}
	if name, ok := src.Lookup(env.ActionName); ok && name != "" {
		return name
	}
	return "unknown"
}
