package hook

import "errors"

// Sentinel errors for composite field parsing.
var (
	// ErrMalformedUnitName indicates a unit name not of the form <app>/<index>.
	ErrMalformedUnitName = errors.New("malformed unit name")

	// ErrMalformedRelationID indicates a relation ID not of the form <name>:<id>.
	ErrMalformedRelationID = errors.New("malformed relation id")
)

// Reasons carried by Unrecognized events.
const (
	ReasonInvalidContext = "deployment context invalid"
	ReasonNoMatch        = "context present but no known event matched"
)
