package hook

import (
	"log/slog"

	"github.com/randalmurphal/charmhook/pkg/charmhook/env"
)

// candidate tries to read one event shape from the environment.
// It reports false when the shape does not apply; a missing variable or a
// malformed composite field is never an error at this level.
type candidate struct {
	kind  Kind
	match matchFunc
}

// candidates in priority order. The first match wins.
var candidates = []candidate{
	{KindInstall, literal("install", func(m *Metadata) Event { return Install{Meta: m} })},
	{KindStart, literal("start", func(m *Metadata) Event { return Start{Meta: m} })},
	{KindLeaderElected, literal("leader-elected", func(m *Metadata) Event { return LeaderElected{Meta: m} })},
	{KindConfigChanged, literal("config-changed", func(m *Metadata) Event { return ConfigChanged{Meta: m} })},
	{KindWorkloadReady, matchWorkloadReady},
	{KindUpdateStatus, literal("update-status", func(m *Metadata) Event { return UpdateStatus{Meta: m} })},
	{KindStop, literal("stop", func(m *Metadata) Event { return Stop{Meta: m} })},
	{KindRemove, literal("remove", func(m *Metadata) Event { return Remove{Meta: m} })},
	{KindRelationCreated, relation("created", nil, func(m *Metadata, r Relation, _ []string) Event {
		return RelationCreated{Meta: m, Relation: r}
	})},
	{KindRelationBroken, relation("broken", nil, func(m *Metadata, r Relation, _ []string) Event {
		return RelationBroken{Meta: m, Relation: r}
	})},
	{KindRelationJoined, relation("joined", []string{env.RemoteUnit}, func(m *Metadata, r Relation, extra []string) Event {
		return RelationJoined{Meta: m, Relation: r, RemoteUnit: extra[0]}
	})},
	{KindRelationDeparted, relation("departed", []string{env.RemoteUnit, env.DepartingUnit}, func(m *Metadata, r Relation, extra []string) Event {
		return RelationDeparted{Meta: m, Relation: r, RemoteUnit: extra[0], DepartingUnit: extra[1]}
	})},
	{KindRelationChanged, relation("changed", []string{env.RemoteUnit}, func(m *Metadata, r Relation, extra []string) Event {
		return RelationChanged{Meta: m, Relation: r, RemoteUnit: extra[0]}
	})},
	{KindActionInvoked, matchAction},
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger logs candidates that were skipped because an auxiliary
// variable was missing or malformed after the hook name matched.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// Classifier turns an environment into exactly one Event.
type Classifier struct {
	logger *slog.Logger
}

// NewClassifier creates a Classifier.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify reads src once per candidate and returns the first event shape
// that matches, or Unrecognized. It never fails.
func (c *Classifier) Classify(src env.Source) Event {
	meta, err := MetadataFromEnv(src)
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("deployment context invalid", slog.String("error", err.Error()))
		}
		return Unrecognized{Reason: ReasonInvalidContext, Env: src.Environ()}
	}

	for _, cand := range candidates {
		if evt, ok := cand.match(src, meta, c.logger); ok {
			return evt
		}
	}

	return Unrecognized{Reason: ReasonNoMatch, Env: src.Environ(), Meta: meta}
}

// Classify classifies src without logging.
func Classify(src env.Source) Event {
	return NewClassifier().Classify(src)
}

// matchFunc is the signature shared by all candidates.
type matchFunc = func(src env.Source, meta *Metadata, log *slog.Logger) (Event, bool)

// literal matches a hook whose name is a fixed string.
func literal(name string, build func(*Metadata) Event) matchFunc {
	return func(src env.Source, meta *Metadata, _ *slog.Logger) (Event, bool) {
		hookName, ok := src.Lookup(env.HookName)
		if !ok || hookName != name {
			return nil, false
		}
		return build(meta), true
	}
}

// matchWorkloadReady matches "<workload>-pebble-ready" where the workload
// name is read from JUJU_WORKLOAD_NAME.
func matchWorkloadReady(src env.Source, meta *Metadata, _ *slog.Logger) (Event, bool) {
	values, err := env.Require(src, env.HookName, env.WorkloadName)
	if err != nil {
		return nil, false
	}
	hookName, workload := values[0], values[1]
	if workload == "" || hookName != workload+"-pebble-ready" {
		return nil, false
	}
	return WorkloadReady{Meta: meta, Workload: workload}, true
}

// relation matches "<relation>-relation-<verb>". The relation ID, remote
// app and any extra variables must all be present and well formed.
func relation(verb string, extra []string, build func(*Metadata, Relation, []string) Event) matchFunc {
	return func(src env.Source, meta *Metadata, log *slog.Logger) (Event, bool) {
		values, err := env.Require(src, env.HookName, env.Relation)
		if err != nil {
			return nil, false
		}
		hookName, name := values[0], values[1]
		if name == "" || hookName != name+"-relation-"+verb {
			return nil, false
		}

		aux, err := env.Require(src, append([]string{env.RelationID, env.RemoteApp}, extra...)...)
		if err != nil {
			logSkip(log, hookName, err)
			return nil, false
		}
		_, id, err := ParseRelationID(aux[0])
		if err != nil {
			logSkip(log, hookName, err)
			return nil, false
		}

		return build(meta, Relation{Name: name, ID: id, RemoteApp: aux[1]}, aux[2:]), true
	}
}

// matchAction matches an action invocation, which carries an action name
// and no hook name.
func matchAction(src env.Source, meta *Metadata, _ *slog.Logger) (Event, bool) {
	if _, ok := src.Lookup(env.HookName); ok {
		return nil, false
	}
	action, ok := src.Lookup(env.ActionName)
	if !ok || action == "" {
		return nil, false
	}
	return ActionInvoked{Meta: meta, Action: action}, true
}

func logSkip(log *slog.Logger, hookName string, err error) {
	if log == nil {
		return
	}
	log.Debug("hook candidate skipped",
		slog.String("hook", hookName),
		slog.String("error", err.Error()),
	)
}

// PriorityOrder returns the kinds in the order candidates are evaluated.
func PriorityOrder() []Kind {
	kinds := make([]Kind, len(candidates))
	for i, cand := range candidates {
		kinds[i] = cand.kind
	}
	return kinds
}
