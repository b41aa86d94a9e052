package logtrace

import (
	"github.com/google/uuid"
)

// idLength is the number of characters kept from a generated UUID.
const idLength = 8

// TraceID identifies one logical request and the nesting level of a call
// within it. TraceID is an immutable value; Next and Previous return copies.
type TraceID struct {
	id    string
	level int
}

// NewTraceID returns a level-0 TraceID for the given id.
func NewTraceID(id string) TraceID {
	return TraceID{id: id}
}

// ID returns the request identifier shared by every level.
func (t TraceID) ID() string {
	return t.id
}

// Level returns the nesting depth, 0 for the outermost call.
func (t TraceID) Level() int {
	return t.level
}

// IsFirstLevel reports whether t is the outermost call of its request.
func (t TraceID) IsFirstLevel() bool {
	return t.level == 0
}

// Next returns the TraceID for a call nested one level below t.
func (t TraceID) Next() TraceID {
	return TraceID{id: t.id, level: t.level + 1}
}

// Previous returns the TraceID one level above t.
// The level never drops below 0.
func (t TraceID) Previous() TraceID {
	if t.level == 0 {
		return t
	}
	return TraceID{id: t.id, level: t.level - 1}
}

// generateID returns a short random token taken from a v4 UUID.
func generateID() string {
	return uuid.NewString()[:idLength]
}
