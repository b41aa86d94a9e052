package logtrace

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector keeps the most recent entries in memory, for tests and debug
// views. Register it with OnEntry(collector.Collect).
// Safe for concurrent use by multiple goroutines.
//
//nolint:govet // Field alignment optimized for readability over memory efficiency
type Collector struct {
	entries      []Entry
	entriesCh    chan Entry
	stopCh       chan struct{}
	done         chan struct{}
	droppedCount atomic.Int64
	limit        int
	mu           sync.Mutex
	closed       atomic.Bool
	syncMode     bool
}

// NewCollector creates a collector queueing up to bufferSize entries and
// retaining at most limit of them. Once limit is reached the oldest entry is
// evicted and counted as dropped.
func NewCollector(bufferSize, limit int) *Collector {
	if limit < 1 {
		limit = 1
	}
	c := &Collector{
		limit:     limit,
		entries:   make([]Entry, 0, min(limit, 64)),
		entriesCh: make(chan Entry, bufferSize),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
	go c.start()
	return c
}

func (c *Collector) start() {
	defer close(c.done)

	for {
		select {
		case <-c.stopCh:
			// Drain remaining entries before shutdown.
			for {
				select {
				case entry := <-c.entriesCh:
					c.buffer(entry)
				default:
					return
				}
			}
		case entry := <-c.entriesCh:
			c.buffer(entry)
		}
	}
}

// Close stops the background goroutine after draining queued entries.
// Buffered entries stay available to Export.
func (c *Collector) Close() {
	if c.closed.Swap(true) {
		return
	}
	close(c.stopCh)
	select {
	case <-c.done:
	case <-time.After(100 * time.Millisecond):
	}
}

// Collect queues an entry. It never blocks: when the queue is full, or the
// collector is closed, the entry is dropped and counted.
func (c *Collector) Collect(entry Entry) {
	if c.closed.Load() {
		c.droppedCount.Add(1)
		return
	}

	if c.syncMode {
		c.buffer(entry)
		return
	}

	select {
	case c.entriesCh <- entry:
	default:
		c.droppedCount.Add(1)
	}
}

func (c *Collector) buffer(entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.limit {
		copy(c.entries, c.entries[1:])
		c.entries = c.entries[:len(c.entries)-1]
		c.droppedCount.Add(1)
	}
	c.entries = append(c.entries, entry)
}

// Export returns the buffered entries, oldest first, and clears the buffer.
func (c *Collector) Export() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		return nil
	}

	result := make([]Entry, len(c.entries))
	copy(result, c.entries)
	c.entries = c.entries[:0]
	return result
}

// Snapshot returns the buffered entries without clearing them.
func (c *Collector) Snapshot() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

// Count returns the number of buffered entries.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// DroppedCount returns the number of entries dropped or evicted.
func (c *Collector) DroppedCount() int64 {
	return c.droppedCount.Load()
}

// SetSyncMode makes Collect buffer directly instead of through the queue.
// This makes tests deterministic by eliminating async behavior.
// Call it before the collector is shared.
func (c *Collector) SetSyncMode(sync bool) {
	c.syncMode = sync
}

// Reset clears buffered entries and the drop counter.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = c.entries[:0]
	c.droppedCount.Store(0)
}
