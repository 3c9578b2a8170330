// Package env provides read-only access to the variables the Juju agent
// sets for a hook invocation.
//
// A Source reports absence separately from an empty value. Classification
// code reads everything through a Source so tests can substitute an
// in-memory Map for the process environment.
package env

import (
	"fmt"
	"os"
	"strings"
)

// Variable names set by the Juju agent.
const (
	ModelName     = "JUJU_MODEL_NAME"
	ModelUUID     = "JUJU_MODEL_UUID"
	UnitName      = "JUJU_UNIT_NAME"
	JujuVersion   = "JUJU_VERSION"
	HookName      = "JUJU_HOOK_NAME"
	ActionName    = "JUJU_ACTION_NAME"
	Relation      = "JUJU_RELATION"
	RelationID    = "JUJU_RELATION_ID"
	RemoteApp     = "JUJU_REMOTE_APP"
	RemoteUnit    = "JUJU_REMOTE_UNIT"
	DepartingUnit = "JUJU_DEPARTING_UNIT"
	WorkloadName  = "JUJU_WORKLOAD_NAME"
)

// Source looks up named variables.
type Source interface {
	// Lookup returns the value of name and whether it is set.
	// A set-but-empty variable returns ("", true).
	Lookup(name string) (string, bool)

	// Environ returns a snapshot of every variable in the source.
	// The returned map is a copy and may be modified by the caller.
	Environ() map[string]string
}

// OS reads the live process environment. Every call re-reads the
// current value.
type OS struct{}

// Compile-time interface check.
var _ Source = OS{}

// Lookup implements Source.
func (OS) Lookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Environ implements Source.
func (OS) Environ() map[string]string {
	vars := os.Environ()
	snapshot := make(map[string]string, len(vars))
	for _, kv := range vars {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		snapshot[k] = v
	}
	return snapshot
}

// Map is an in-memory Source.
type Map map[string]string

// Compile-time interface check.
var _ Source = Map(nil)

// Lookup implements Source.
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Environ implements Source.
func (m Map) Environ() map[string]string {
	snapshot := make(map[string]string, len(m))
	for k, v := range m {
		snapshot[k] = v
	}
	return snapshot
}

// MissingError reports a variable that is not set.
type MissingError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingError) Error() string {
	return fmt.Sprintf("environment variable %s not set", e.Name)
}

// Require returns the values of names in order, or a *MissingError for
// the first one that is absent.
func Require(src Source, names ...string) ([]string, error) {
	values := make([]string, 0, len(names))
	for _, name := range names {
		v, ok := src.Lookup(name)
		if !ok {
			return nil, &MissingError{Name: name}
		}
		values = append(values, v)
	}
	return values, nil
}
