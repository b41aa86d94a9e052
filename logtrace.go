package logtrace

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/zoobzio/clockz"
)

// LogTrace is the engine contract. Every Begin must be matched by exactly one
// End or Exception on the same execution context, in LIFO order.
//
// Implementations never return errors and never panic on misuse: tracing
// must not break the code it observes.
type LogTrace interface {
	// Begin opens a traced call and logs its entry line.
	Begin(ctx context.Context, message string) TraceStatus
	// End closes the call opened by status and logs the elapsed time.
	End(ctx context.Context, status TraceStatus)
	// Exception closes the call opened by status as failed and logs err.
	Exception(ctx context.Context, status TraceStatus, err error)
}

var (
	_ LogTrace = (*ContextLogTrace)(nil)
	_ LogTrace = (*FieldLogTrace)(nil)
)

// emitter holds what every strategy shares: the sink, the clock, the id
// source and the entry handlers. It renders and emits lines but keeps no
// nesting state of its own.
//
//nolint:govet // Field order optimized for readability over memory
type emitter struct {
	log        logr.Logger
	clock      clockz.Clock
	newID      func() string
	idPool     *IDPool
	idPoolOnce sync.Once
	hooks
}

func newEmitter(log logr.Logger) *emitter {
	return &emitter{
		log:   log,
		clock: clockz.RealClock,
	}
}

// derive returns a fresh emitter with e's configuration and no handlers.
func (e *emitter) derive() *emitter {
	return &emitter{
		log:   e.log,
		clock: e.clock,
		newID: e.newID,
	}
}

// nextID returns a fresh request id, from the injected generator if one is
// set and from a lazily created pool otherwise.
func (e *emitter) nextID() string {
	if e.newID != nil {
		return e.newID()
	}
	e.idPoolOnce.Do(func() {
		e.idPool = NewIDPool(runtime.NumCPU()*16, generateID)
	})
	if e.idPool == nil {
		// Closed before first use.
		return generateID()
	}
	return e.idPool.Get()
}

func (e *emitter) begin(id TraceID, message string) TraceStatus {
	now := e.clock.Now()
	line := renderBegin(id, message)
	e.log.Info(line)
	e.dispatch(Entry{
		Time:    now,
		TraceID: id.ID(),
		Level:   id.Level(),
		Marker:  MarkerBegin,
		Message: message,
		Line:    line,
	})
	return newTraceStatus(id, now, message)
}

func (e *emitter) end(status TraceStatus) {
	now, elapsed := e.elapsed(status)
	id := status.TraceID()
	line := renderEnd(id, status.Message(), elapsed)
	e.log.Info(line)
	e.dispatch(Entry{
		Time:    now,
		TraceID: id.ID(),
		Level:   id.Level(),
		Marker:  MarkerEnd,
		Message: status.Message(),
		Elapsed: elapsed,
		Line:    line,
	})
}

func (e *emitter) exception(status TraceStatus, err error) {
	now, elapsed := e.elapsed(status)
	id := status.TraceID()
	line := renderException(id, status.Message(), elapsed, err)
	e.log.Error(err, line)
	e.dispatch(Entry{
		Time:    now,
		TraceID: id.ID(),
		Level:   id.Level(),
		Marker:  MarkerException,
		Message: status.Message(),
		Elapsed: elapsed,
		Err:     err,
		Line:    line,
	})
}

// elapsed is zero for a zero status so misuse does not log absurd durations.
func (e *emitter) elapsed(status TraceStatus) (time.Time, time.Duration) {
	now := e.clock.Now()
	if status.StartTime().IsZero() {
		return now, 0
	}
	elapsed := now.Sub(status.StartTime())
	if elapsed < 0 {
		elapsed = 0
	}
	return now, elapsed
}

// Close releases the id pool and drops all handlers.
// The engine stays usable afterwards.
func (e *emitter) Close() {
	e.clearHandlers()
	e.idPoolOnce.Do(func() {})
	if e.idPool != nil {
		e.idPool.Close()
	}
}
