package hook

import (
	"fmt"
	"sort"
	"strings"
)

// Name returns the Go-style variant name used when rendering.
func Name(evt Event) string {
	switch evt.(type) {
	case Install:
		return "Install"
	case Start:
		return "Start"
	case LeaderElected:
		return "LeaderElected"
	case ConfigChanged:
		return "ConfigChanged"
	case UpdateStatus:
		return "UpdateStatus"
	case Stop:
		return "Stop"
	case Remove:
		return "Remove"
	case WorkloadReady:
		return "WorkloadReady"
	case RelationCreated:
		return "RelationCreated"
	case RelationBroken:
		return "RelationBroken"
	case RelationJoined:
		return "RelationJoined"
	case RelationDeparted:
		return "RelationDeparted"
	case RelationChanged:
		return "RelationChanged"
	case ActionInvoked:
		return "ActionInvoked"
	default:
		return "Unrecognized"
	}
}

// Fields flattens an event into key/value pairs. Metadata fields are
// included when present; Unrecognized adds its reason and environment.
func Fields(evt Event) map[string]any {
	fields := map[string]any{
		"event": Name(evt),
		"kind":  evt.Kind().String(),
	}

	if m := evt.Metadata(); m != nil {
		fields["model"] = m.Model
		fields["model_uuid"] = m.ModelUUID
		fields["app"] = m.App
		fields["unit"] = m.Unit
		fields["juju_version"] = m.JujuVersion
	}

	if r, ok := RelationOf(evt); ok {
		fields["relation"] = r.Name
		fields["relation_id"] = r.ID
		fields["remote_app"] = r.RemoteApp
	}

	switch e := evt.(type) {
	case WorkloadReady:
		fields["workload"] = e.Workload
	case RelationJoined:
		fields["remote_unit"] = e.RemoteUnit
	case RelationDeparted:
		fields["remote_unit"] = e.RemoteUnit
		fields["departing_unit"] = e.DepartingUnit
	case RelationChanged:
		fields["remote_unit"] = e.RemoteUnit
	case ActionInvoked:
		fields["action"] = e.Action
	case Unrecognized:
		fields["reason"] = e.Reason
		fields["env"] = e.Env
	}

	return fields
}

// Render formats an event on one line, e.g.
//
//	Install{app=myapp unit=3 model=foo model_uuid=u1 juju_version=2.9}
//
// Keys specific to the variant come first. Unrecognized ends with the
// environment snapshot sorted by name.
func Render(evt Event) string {
	var parts []string
	add := func(k string, v any) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}

	if r, ok := RelationOf(evt); ok {
		add("relation", r.Name)
		add("relation_id", r.ID)
		add("remote_app", r.RemoteApp)
	}

	switch e := evt.(type) {
	case WorkloadReady:
		add("workload", e.Workload)
	case RelationJoined:
		add("remote_unit", e.RemoteUnit)
	case RelationDeparted:
		add("remote_unit", e.RemoteUnit)
		add("departing_unit", e.DepartingUnit)
	case RelationChanged:
		add("remote_unit", e.RemoteUnit)
	case ActionInvoked:
		add("action", e.Action)
	case Unrecognized:
		add("reason", fmt.Sprintf("%q", e.Reason))
	}

	if m := evt.Metadata(); m != nil {
		add("app", m.App)
		add("unit", m.Unit)
		add("model", m.Model)
		add("model_uuid", m.ModelUUID)
		add("juju_version", m.JujuVersion)
	}

	if e, ok := evt.(Unrecognized); ok {
		add("env", renderEnv(e.Env))
	}

	return Name(evt) + "{" + strings.Join(parts, " ") + "}"
}

func renderEnv(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%q", k, vars[k])
	}
	return "[" + strings.Join(pairs, " ") + "]"
}
