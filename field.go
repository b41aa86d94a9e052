package logtrace

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/zoobzio/clockz"
)

// FieldLogTrace keeps nesting state in a single field shared by every
// caller. It ignores the context entirely.
//
// KNOWN DEFECT: when two requests overlap, the second request's Begin sees
// the first request's open TraceID and continues it. Both requests then log
// under one id with corrupted levels. The mutex only keeps memory access
// safe; it does not, and is not meant to, make the strategy correct.
// Use ContextLogTrace.
type FieldLogTrace struct {
	*emitter
	state Holder
}

// NewFieldLogTrace creates a shared-field engine writing to log.
func NewFieldLogTrace(log logr.Logger) *FieldLogTrace {
	return &FieldLogTrace{emitter: newEmitter(log)}
}

// WithClock returns a new engine with the specified clock.
func (t *FieldLogTrace) WithClock(clock clockz.Clock) *FieldLogTrace {
	e := t.derive()
	e.clock = clock
	return &FieldLogTrace{emitter: e}
}

// WithIDGenerator returns a new engine minting request ids with gen.
func (t *FieldLogTrace) WithIDGenerator(gen func() string) *FieldLogTrace {
	e := t.derive()
	e.newID = gen
	return &FieldLogTrace{emitter: e}
}

// Begin implements LogTrace.
func (t *FieldLogTrace) Begin(_ context.Context, message string) TraceStatus {
	return t.begin(t.state.enter(t.nextID), message)
}

// End implements LogTrace.
func (t *FieldLogTrace) End(_ context.Context, status TraceStatus) {
	t.end(status)
	t.state.leave()
}

// Exception implements LogTrace.
func (t *FieldLogTrace) Exception(_ context.Context, status TraceStatus, err error) {
	t.exception(status, err)
	t.state.leave()
}

// Current returns the shared TraceID of the innermost open call.
func (t *FieldLogTrace) Current() (TraceID, bool) {
	return t.state.Current()
}
