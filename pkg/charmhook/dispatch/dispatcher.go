package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/charmhook/pkg/charmhook/hook"
	"github.com/randalmurphal/charmhook/pkg/charmhook/journal"
	"github.com/randalmurphal/charmhook/pkg/charmhook/observability"
)

// Result describes what Dispatch did with an event.
type Result struct {
	// Handler is the name of the route that fired, empty if none did.
	Handler string

	// Fired reports whether a handler ran.
	Fired bool

	// Err is the handler's error or recovered panic.
	Err error

	// Duration is the time spent in the handler.
	Duration time.Duration
}

// route is one registered handler with its narrowing predicate.
type route struct {
	name    string
	handler Handler
	match   func(hook.Event) bool
}

// RouteOption narrows which events of a kind reach a handler.
type RouteOption func(*route)

// WithMatch adds a predicate the event must satisfy.
func WithMatch(pred func(hook.Event) bool) RouteOption {
	return func(r *route) {
		prev := r.match
		r.match = func(evt hook.Event) bool {
			return (prev == nil || prev(evt)) && pred(evt)
		}
	}
}

// WithRelation accepts only relation events for the named relation.
func WithRelation(name string) RouteOption {
	return WithMatch(func(evt hook.Event) bool {
		rel, ok := hook.RelationOf(evt)
		return ok && rel.Name == name
	})
}

// WithWorkload accepts only WorkloadReady events for the named workload.
func WithWorkload(name string) RouteOption {
	return WithMatch(func(evt hook.Event) bool {
		e, ok := evt.(hook.WorkloadReady)
		return ok && e.Workload == name
	})
}

// WithAction accepts only ActionInvoked events for the named action.
func WithAction(name string) RouteOption {
	return WithMatch(func(evt hook.Event) bool {
		e, ok := evt.(hook.ActionInvoked)
		return ok && e.Action == name
	})
}

// Config configures a Dispatcher. Every field is optional.
type Config struct {
	// Logger receives the classified event and dispatch outcome.
	Logger *slog.Logger

	// Metrics records dispatch counts and handler latency.
	Metrics observability.MetricsRecorder

	// Spans wraps each dispatch in a span.
	Spans observability.SpanManager

	// Journal records every dispatched event. Failures are logged only.
	Journal journal.Store
}

// Dispatcher selects and runs at most one handler per event.
// It is safe for concurrent use and keeps no per-event state.
type Dispatcher struct {
	config Config

	mu         sync.RWMutex
	routes     map[hook.Kind][]route
	middleware []MiddlewareFunc
}

// New creates a Dispatcher. Handler panics are always recovered.
func New(config Config) *Dispatcher {
	if config.Metrics == nil {
		config.Metrics = observability.NoopMetrics{}
	}
	if config.Spans == nil {
		config.Spans = observability.NoopSpanManager{}
	}
	return &Dispatcher{
		config:     config,
		routes:     make(map[hook.Kind][]route),
		middleware: []MiddlewareFunc{RecoveryMiddleware()},
	}
}

// Use adds middleware that applies to subsequently registered handlers.
func (d *Dispatcher) Use(middleware MiddlewareFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.middleware = append(d.middleware, middleware)
}

// Register adds a handler for kind. Routes are tried in registration
// order and the first whose options accept the event wins.
func (d *Dispatcher) Register(kind hook.Kind, name string, h Handler, opts ...RouteOption) {
	r := route{name: name}
	for _, opt := range opts {
		opt(&r)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	r.handler = ChainMiddleware(h, d.middleware...)
	d.routes[kind] = append(d.routes[kind], r)
}

// Dispatch records evt and runs the first matching handler, if any.
// It never fails: handler errors and panics are returned in Result.Err.
func (d *Dispatcher) Dispatch(ctx context.Context, evt hook.Event) Result {
	kind := evt.Kind().String()
	observability.LogEvent(d.config.Logger, evt)
	d.record(ctx, evt)

	ctx, span := d.config.Spans.StartDispatchSpan(ctx, kind)

	r, ok := d.lookup(evt)
	if !ok {
		observability.LogDispatch(d.config.Logger, kind, "", false, 0)
		d.config.Metrics.RecordDispatch(ctx, kind, "", false, 0, nil)
		d.config.Spans.EndSpanWithError(span, nil)
		return Result{}
	}

	d.config.Spans.AddSpanEvent(ctx, "handler.selected", attribute.String("handler", r.name))
	start := time.Now()
	err := r.handler.Handle(ctx, evt)
	res := Result{Handler: r.name, Fired: true, Err: err, Duration: time.Since(start)}

	if err != nil {
		observability.LogHandlerError(d.config.Logger, kind, r.name, err)
	}
	observability.LogDispatch(d.config.Logger, kind, r.name, true, res.Duration)
	d.config.Metrics.RecordDispatch(ctx, kind, r.name, true, res.Duration, err)
	d.config.Spans.EndSpanWithError(span, err)
	return res
}

func (d *Dispatcher) lookup(evt hook.Event) (route, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, r := range d.routes[evt.Kind()] {
		if r.match == nil || r.match(evt) {
			return r, true
		}
	}
	return route{}, false
}

// record appends evt to the journal when one is configured. The
// invocation ID comes from ctx (see WithInvocationID) or is generated.
func (d *Dispatcher) record(ctx context.Context, evt hook.Event) {
	if d.config.Journal == nil {
		return
	}
	id := InvocationID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	rec, err := journal.NewRecord(id, evt)
	if err != nil {
		observability.LogJournalError(d.config.Logger, "encode", err)
		return
	}
	if err := d.config.Journal.Append(rec); err != nil {
		observability.LogJournalError(d.config.Logger, "append", err)
	}
}

type contextKey string

const invocationIDKey contextKey = "invocation_id"

// WithInvocationID attaches the invocation ID used for journal records.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationID returns the invocation ID attached to ctx, or "".
func InvocationID(ctx context.Context) string {
	if v, ok := ctx.Value(invocationIDKey).(string); ok {
		return v
	}
	return ""
}
