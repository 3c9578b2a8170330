// Package hook classifies a Juju hook invocation into a typed Event.
//
// Event is a closed set: every implementation lives in this package and
// the unexported marker method keeps other packages from adding more.
// Consumers switch on the concrete type or on Kind.
package hook

// Event is one classified hook invocation.
type Event interface {
	// Kind identifies the variant.
	Kind() Kind

	// Metadata returns the shared deployment context. It is nil for
	// Unrecognized events that failed before metadata could be built.
	Metadata() *Metadata

	isEvent()
}

// Relation identifies the relation a relation event refers to.
type Relation struct {
	Name      string `json:"relation"`
	ID        int    `json:"relation_id"`
	RemoteApp string `json:"remote_app"`
}

// Install is the install hook.
type Install struct{ Meta *Metadata }

// Start is the start hook.
type Start struct{ Meta *Metadata }

// LeaderElected is the leader-elected hook.
type LeaderElected struct{ Meta *Metadata }

// ConfigChanged is the config-changed hook.
type ConfigChanged struct{ Meta *Metadata }

// UpdateStatus is the update-status hook.
type UpdateStatus struct{ Meta *Metadata }

// Stop is the stop hook.
type Stop struct{ Meta *Metadata }

// Remove is the remove hook.
type Remove struct{ Meta *Metadata }

// WorkloadReady is the <workload>-pebble-ready hook.
type WorkloadReady struct {
	Meta     *Metadata
	Workload string
}

// RelationCreated is the <relation>-relation-created hook.
type RelationCreated struct {
	Meta     *Metadata
	Relation Relation
}

// RelationBroken is the <relation>-relation-broken hook.
type RelationBroken struct {
	Meta     *Metadata
	Relation Relation
}

// RelationJoined is the <relation>-relation-joined hook.
type RelationJoined struct {
	Meta       *Metadata
	Relation   Relation
	RemoteUnit string
}

// RelationDeparted is the <relation>-relation-departed hook.
type RelationDeparted struct {
	Meta          *Metadata
	Relation      Relation
	RemoteUnit    string
	DepartingUnit string
}

// RelationChanged is the <relation>-relation-changed hook.
type RelationChanged struct {
	Meta       *Metadata
	Relation   Relation
	RemoteUnit string
}

// ActionInvoked is an action run rather than a hook.
type ActionInvoked struct {
	Meta   *Metadata
	Action string
}

// Unrecognized is produced when classification fails. Env holds the full
// environment snapshot for diagnosis.
type Unrecognized struct {
	Reason string
	Env    map[string]string
	Meta   *Metadata
}

func (Install) Kind() Kind          { return KindInstall }
func (Start) Kind() Kind            { return KindStart }
func (LeaderElected) Kind() Kind    { return KindLeaderElected }
func (ConfigChanged) Kind() Kind    { return KindConfigChanged }
func (UpdateStatus) Kind() Kind     { return KindUpdateStatus }
func (Stop) Kind() Kind             { return KindStop }
func (Remove) Kind() Kind           { return KindRemove }
func (WorkloadReady) Kind() Kind    { return KindWorkloadReady }
func (RelationCreated) Kind() Kind  { return KindRelationCreated }
func (RelationBroken) Kind() Kind   { return KindRelationBroken }
func (RelationJoined) Kind() Kind   { return KindRelationJoined }
func (RelationDeparted) Kind() Kind { return KindRelationDeparted }
func (RelationChanged) Kind() Kind  { return KindRelationChanged }
func (ActionInvoked) Kind() Kind    { return KindActionInvoked }
func (Unrecognized) Kind() Kind     { return KindUnrecognized }

func (e Install) Metadata() *Metadata          { return e.Meta }
func (e Start) Metadata() *Metadata            { return e.Meta }
func (e LeaderElected) Metadata() *Metadata    { return e.Meta }
func (e ConfigChanged) Metadata() *Metadata    { return e.Meta }
func (e UpdateStatus) Metadata() *Metadata     { return e.Meta }
func (e Stop) Metadata() *Metadata             { return e.Meta }
func (e Remove) Metadata() *Metadata           { return e.Meta }
func (e WorkloadReady) Metadata() *Metadata    { return e.Meta }
func (e RelationCreated) Metadata() *Metadata  { return e.Meta }
func (e RelationBroken) Metadata() *Metadata   { return e.Meta }
func (e RelationJoined) Metadata() *Metadata   { return e.Meta }
func (e RelationDeparted) Metadata() *Metadata { return e.Meta }
func (e RelationChanged) Metadata() *Metadata  { return e.Meta }
func (e ActionInvoked) Metadata() *Metadata    { return e.Meta }
func (e Unrecognized) Metadata() *Metadata     { return e.Meta }

func (Install) isEvent()          {}
func (Start) isEvent()            {}
func (LeaderElected) isEvent()    {}
func (ConfigChanged) isEvent()    {}
func (UpdateStatus) isEvent()     {}
func (Stop) isEvent()             {}
func (Remove) isEvent()           {}
func (WorkloadReady) isEvent()    {}
func (RelationCreated) isEvent()  {}
func (RelationBroken) isEvent()   {}
func (RelationJoined) isEvent()   {}
func (RelationDeparted) isEvent() {}
func (RelationChanged) isEvent()  {}
func (ActionInvoked) isEvent()    {}
func (Unrecognized) isEvent()     {}

// RelationOf returns the relation carried by a relation event.
func RelationOf(evt Event) (Relation, bool) {
	switch e := evt.(type) {
	case RelationCreated:
		return e.Relation, true
	case RelationBroken:
		return e.Relation, true
	case RelationJoined:
		return e.Relation, true
	case RelationDeparted:
		return e.Relation, true
	case RelationChanged:
		return e.Relation, true
	}
	return Relation{}, false
}
