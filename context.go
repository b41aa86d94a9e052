package logtrace

import (
	"context"
	"sync"
)

// holderKeyType is a private type for context keys to avoid collisions.
type holderKeyType struct{}

var holderKey holderKeyType //nolint:gochecknoglobals

// Holder is the nesting state of one execution context: the TraceID of the
// innermost open call, or nothing when no call is open.
//
// A Holder is created empty by NewContext and filled lazily by the first
// Begin. It empties itself when the outermost call ends.
type Holder struct {
	traceID *TraceID
	mu      sync.Mutex
}

// NewContext returns a child of parent carrying a fresh, empty Holder.
// Call it once per logical request, or once per worker and Clear between
// jobs.
func NewContext(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithValue(parent, holderKey, &Holder{})
}

// HolderFrom returns the Holder carried by ctx, or nil.
func HolderFrom(ctx context.Context) *Holder {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(holderKey).(*Holder)
	return h
}

// Current returns the TraceID of the innermost open call on ctx.
func Current(ctx context.Context) (TraceID, bool) {
	h := HolderFrom(ctx)
	if h == nil {
		return TraceID{}, false
	}
	return h.Current()
}

// Clear discards any state held by ctx. No-op without a Holder.
func Clear(ctx context.Context) {
	if h := HolderFrom(ctx); h != nil {
		h.Clear()
	}
}

// Current returns the TraceID of the innermost open call.
func (h *Holder) Current() (TraceID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.traceID == nil {
		return TraceID{}, false
	}
	return *h.traceID, true
}

// Clear discards the held state so the next Begin starts a new request.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.traceID = nil
}

// enter stores and returns the TraceID for a new call: a fresh level-0 id
// when nothing is open, the next level of the open id otherwise.
func (h *Holder) enter(newID func() string) TraceID {
	h.mu.Lock()
	defer h.mu.Unlock()

	var next TraceID
	if h.traceID == nil {
		next = NewTraceID(newID())
	} else {
		next = h.traceID.Next()
	}
	h.traceID = &next
	return next
}

// leave unwinds one level, emptying the holder when the outermost call
// returns. Leaving an empty holder is a no-op.
func (h *Holder) leave() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.traceID == nil {
		return
	}
	if h.traceID.IsFirstLevel() {
		h.traceID = nil
		return
	}
	prev := h.traceID.Previous()
	h.traceID = &prev
}
