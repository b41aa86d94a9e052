package logtrace

import (
	"sync"
	"sync/atomic"
	"time"
)

// Entry is one emitted trace line together with the values it was rendered
// from.
//
//nolint:govet // Field order follows the rendered line
type Entry struct {
	Time    time.Time
	TraceID string
	Level   int
	Marker  Marker
	Message string
	Elapsed time.Duration
	Err     error
	Line    string
}

// EntryHandler is called synchronously for every emitted line.
type EntryHandler func(entry Entry)

type handlerEntry struct {
	handler EntryHandler
	id      uint64
}

type hooks struct {
	handlers     []handlerEntry
	panicHook    func(handlerID uint64, r interface{})
	handlersLock sync.RWMutex
	lastID       atomic.Uint64
}

// OnEntry registers a handler called with every emitted entry.
// It returns an id for RemoveHandler, or 0 for a nil handler.
func (h *hooks) OnEntry(handler EntryHandler) uint64 {
	if handler == nil {
		return 0
	}

	id := h.lastID.Add(1)

	h.handlersLock.Lock()
	defer h.handlersLock.Unlock()

	h.handlers = append(h.handlers, handlerEntry{id: id, handler: handler})
	return id
}

// RemoveHandler removes a handler by id.
func (h *hooks) RemoveHandler(id uint64) {
	h.handlersLock.Lock()
	defer h.handlersLock.Unlock()

	// Preserve order
	for i, e := range h.handlers {
		if e.id == id {
			copy(h.handlers[i:], h.handlers[i+1:])
			h.handlers = h.handlers[:len(h.handlers)-1]
			return
		}
	}
}

// SetPanicHook sets a function called when a handler panics.
// Handler panics are always recovered.
func (h *hooks) SetPanicHook(hook func(handlerID uint64, r interface{})) {
	h.handlersLock.Lock()
	defer h.handlersLock.Unlock()
	h.panicHook = hook
}

// HasHandlers reports whether any handler is registered.
func (h *hooks) HasHandlers() bool {
	h.handlersLock.RLock()
	defer h.handlersLock.RUnlock()
	return len(h.handlers) > 0
}

func (h *hooks) clearHandlers() {
	h.handlersLock.Lock()
	defer h.handlersLock.Unlock()
	h.handlers = nil
}

func (h *hooks) dispatch(entry Entry) {
	h.handlersLock.RLock()
	if len(h.handlers) == 0 {
		h.handlersLock.RUnlock()
		return
	}

	handlers := make([]handlerEntry, len(h.handlers))
	copy(handlers, h.handlers)
	panicHook := h.panicHook
	h.handlersLock.RUnlock()

	for _, e := range handlers {
		safeCall(e, entry, panicHook)
	}
}

func safeCall(e handlerEntry, entry Entry, panicHook func(uint64, interface{})) {
	defer func() {
		if r := recover(); r != nil {
			if panicHook != nil {
				panicHook(e.id, r)
			}
		}
	}()
	e.handler(entry)
}
