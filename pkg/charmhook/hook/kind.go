package hook

// Kind identifies which variant an Event is.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindInstall
	KindStart
	KindLeaderElected
	KindConfigChanged
	KindWorkloadReady
	KindUpdateStatus
	KindStop
	KindRemove
	KindRelationCreated
	KindRelationBroken
	KindRelationJoined
	KindRelationDeparted
	KindRelationChanged
	KindActionInvoked
)

// String returns the hook name suffix Juju uses for the kind.
// Relation kinds omit the relation name prefix and workload-ready
// omits the workload prefix.
func (k Kind) String() string {
	switch k {
	case KindInstall:
		return "install"
	case KindStart:
		return "start"
	case KindLeaderElected:
		return "leader-elected"
	case KindConfigChanged:
		return "config-changed"
	case KindWorkloadReady:
		return "pebble-ready"
	case KindUpdateStatus:
		return "update-status"
	case KindStop:
		return "stop"
	case KindRemove:
		return "remove"
	case KindRelationCreated:
		return "relation-created"
	case KindRelationBroken:
		return "relation-broken"
	case KindRelationJoined:
		return "relation-joined"
	case KindRelationDeparted:
		return "relation-departed"
	case KindRelationChanged:
		return "relation-changed"
	case KindActionInvoked:
		return "action"
	default:
		return "unrecognized"
	}
}

// IsRelation reports whether the kind is one of the relation events.
func (k Kind) IsRelation() bool {
	return k >= KindRelationCreated && k <= KindRelationChanged
}
