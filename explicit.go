package logtrace

import (
	"github.com/go-logr/logr"
	"github.com/zoobzio/clockz"
)

// ExplicitTrace keeps no state. Callers forward the live TraceID into nested
// calls themselves and continue it with BeginSync.
//
//	status := trace.Begin("OrderController.request()")
//	svc.OrderItem(status.TraceID(), itemID) // calls trace.BeginSync(id, ...)
type ExplicitTrace struct {
	*emitter
}

// NewExplicitTrace creates a stateless engine writing to log.
func NewExplicitTrace(log logr.Logger) *ExplicitTrace {
	return &ExplicitTrace{emitter: newEmitter(log)}
}

// WithClock returns a new engine with the specified clock.
func (t *ExplicitTrace) WithClock(clock clockz.Clock) *ExplicitTrace {
	e := t.derive()
	e.clock = clock
	return &ExplicitTrace{emitter: e}
}

// WithIDGenerator returns a new engine minting request ids with gen.
func (t *ExplicitTrace) WithIDGenerator(gen func() string) *ExplicitTrace {
	e := t.derive()
	e.newID = gen
	return &ExplicitTrace{emitter: e}
}

// Begin starts a new request at level 0.
func (t *ExplicitTrace) Begin(message string) TraceStatus {
	return t.begin(NewTraceID(t.nextID()), message)
}

// BeginSync starts a call nested one level below prev.
func (t *ExplicitTrace) BeginSync(prev TraceID, message string) TraceStatus {
	return t.begin(prev.Next(), message)
}

// End logs the completion of status.
func (t *ExplicitTrace) End(status TraceStatus) {
	t.end(status)
}

// Exception logs the failure of status.
func (t *ExplicitTrace) Exception(status TraceStatus, err error) {
	t.exception(status, err)
}
