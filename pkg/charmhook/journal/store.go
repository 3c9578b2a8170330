// Package journal keeps an optional record of classified hook invocations.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/charmhook/pkg/charmhook/hook"
)

// Store persists invocation records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores a record. A record with the same invocation ID
	// replaces the earlier one and takes a new sequence number.
	Append(rec Record) error

	// Get retrieves the record for an invocation.
	// Returns ErrNotFound if it doesn't exist.
	Get(invocationID string) (Record, error)

	// List returns up to limit records, newest first. A limit <= 0
	// returns all records.
	List(limit int) ([]Record, error)

	// Count returns the number of stored records.
	Count() (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Record is one classified invocation.
type Record struct {
	InvocationID string
	Sequence     int
	Kind         string
	Event        string
	Unit         string
	Recognized   bool
	Timestamp    time.Time
	Data         []byte // JSON of hook.Fields
}

// Sentinel errors for journal operations.
var (
	// ErrNotFound indicates a record doesn't exist.
	ErrNotFound = errors.New("journal record not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")
)

// NewRecord builds a Record for evt. Sequence is assigned by the store.
func NewRecord(invocationID string, evt hook.Event) (Record, error) {
	data, err := json.Marshal(hook.Fields(evt))
	if err != nil {
		return Record{}, fmt.Errorf("encode event: %w", err)
	}
	_, unrecognized := evt.(hook.Unrecognized)
	return Record{
		InvocationID: invocationID,
		Kind:         evt.Kind().String(),
		Event:        hook.Name(evt),
		Unit:         evt.Metadata().UnitName(),
		Recognized:   !unrecognized,
		Timestamp:    time.Now().UTC(),
		Data:         data,
	}, nil
}

// Fields decodes the record's event data.
func (r Record) Fields() (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(r.Data, &fields); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return fields, nil
}
