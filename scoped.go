package logtrace

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/zoobzio/clockz"
)

// ContextLogTrace keeps nesting state in the Holder carried by each call's
// context, so concurrent requests never see each other's id or level.
// It is the default strategy.
//
// Calls whose context has no Holder are still logged, each as its own
// level-0 request with a fresh id.
type ContextLogTrace struct {
	*emitter
}

// NewContextLogTrace creates a context-isolated engine writing to log.
// Uses the real clock.
func NewContextLogTrace(log logr.Logger) *ContextLogTrace {
	return &ContextLogTrace{emitter: newEmitter(log)}
}

// WithClock returns a new engine with the specified clock.
// Enables clock injection for deterministic testing.
func (t *ContextLogTrace) WithClock(clock clockz.Clock) *ContextLogTrace {
	e := t.derive()
	e.clock = clock
	return &ContextLogTrace{emitter: e}
}

// WithIDGenerator returns a new engine minting request ids with gen.
func (t *ContextLogTrace) WithIDGenerator(gen func() string) *ContextLogTrace {
	e := t.derive()
	e.newID = gen
	return &ContextLogTrace{emitter: e}
}

// Begin implements LogTrace.
func (t *ContextLogTrace) Begin(ctx context.Context, message string) TraceStatus {
	h := HolderFrom(ctx)
	if h == nil {
		t.log.V(1).Info("no trace holder in context, nesting is not tracked", "message", message)
		return t.begin(NewTraceID(t.nextID()), message)
	}
	return t.begin(h.enter(t.nextID), message)
}

// End implements LogTrace.
func (t *ContextLogTrace) End(ctx context.Context, status TraceStatus) {
	t.end(status)
	t.release(ctx)
}

// Exception implements LogTrace.
func (t *ContextLogTrace) Exception(ctx context.Context, status TraceStatus, err error) {
	t.exception(status, err)
	t.release(ctx)
}

func (*ContextLogTrace) release(ctx context.Context) {
	if h := HolderFrom(ctx); h != nil {
		h.leave()
	}
}
