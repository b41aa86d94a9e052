package logtrace

import (
	"sync"
)

// IDPool keeps a buffer of pre-generated trace ids so that Begin does not pay
// for random generation on the request path.
type IDPool struct {
	factory func() string
	ids     chan string
	stopCh  chan struct{}
	mu      sync.Mutex
	closed  bool
}

// NewIDPool creates a pool holding up to capacity ids produced by factory.
// A nil factory uses the default 8-character generator.
func NewIDPool(capacity int, factory func() string) *IDPool {
	if factory == nil {
		factory = generateID
	}
	if capacity < 1 {
		capacity = 1
	}
	pool := &IDPool{
		ids:     make(chan string, capacity),
		factory: factory,
		stopCh:  make(chan struct{}),
	}
	go pool.refill()
	return pool
}

// Get returns a pooled id, or generates one directly when the pool is empty.
func (p *IDPool) Get() string {
	select {
	case id := <-p.ids:
		return id
	default:
		return p.factory()
	}
}

func (p *IDPool) refill() {
	for {
		id := p.factory()
		select {
		case p.ids <- id:
		case <-p.stopCh:
			return
		}
	}
}

// Close stops the background refill. Safe to call more than once.
// Get keeps working after Close by generating ids directly.
func (p *IDPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		close(p.stopCh)
		p.closed = true
	}
}
