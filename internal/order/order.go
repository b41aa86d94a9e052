// Package order is a small order flow used to exercise the tracer: a
// controller calls a service, which calls a repository. Each layer traces
// itself, so one request logs a three-level call tree.
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/logtrace"
)

// ErrInvalidItem is returned when saving the reserved item id "ex".
var ErrInvalidItem = errors.New("invalid item")

// failingItemID always fails to save.
const failingItemID = "ex"

// Repository stores ordered item ids in memory.
type Repository struct {
	tmpl  *logtrace.Template
	clock clockz.Clock
	items []string
	delay time.Duration
	mu    sync.Mutex
}

// NewRepository creates a repository whose Save takes delay on clock.
func NewRepository(trace logtrace.LogTrace, clock clockz.Clock, delay time.Duration) *Repository {
	return &Repository{
		tmpl:  logtrace.NewTemplate(trace),
		clock: clock,
		delay: delay,
	}
}

// Save stores itemID.
func (r *Repository) Save(ctx context.Context, itemID string) error {
	return r.tmpl.Run(ctx, "OrderRepository.save()", func(ctx context.Context) error {
		if itemID == failingItemID {
			return fmt.Errorf("save %q: %w", itemID, ErrInvalidItem)
		}
		if r.delay > 0 {
			select {
			case <-r.clock.After(r.delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		r.items = append(r.items, itemID)
		return nil
	})
}

// Items returns the saved item ids in save order.
func (r *Repository) Items() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.items))
	copy(out, r.items)
	return out
}

// Service orders items. It uses the Begin/End/Exception calls directly.
type Service struct {
	repo  *Repository
	trace logtrace.LogTrace
}

// NewService creates a service saving through repo.
func NewService(repo *Repository, trace logtrace.LogTrace) *Service {
	return &Service{repo: repo, trace: trace}
}

// OrderItem saves itemID.
func (s *Service) OrderItem(ctx context.Context, itemID string) error {
	status := s.trace.Begin(ctx, "OrderService.orderItem()")
	if err := s.repo.Save(ctx, itemID); err != nil {
		s.trace.Exception(ctx, status, err)
		return err
	}
	s.trace.End(ctx, status)
	return nil
}

// Controller is the entry point of one order request.
type Controller struct {
	service *Service
	tmpl    *logtrace.Template
}

// NewController creates a controller ordering through service.
func NewController(service *Service, trace logtrace.LogTrace) *Controller {
	return &Controller{service: service, tmpl: logtrace.NewTemplate(trace)}
}

// Request orders itemID and returns "ok".
func (c *Controller) Request(ctx context.Context, itemID string) (string, error) {
	return logtrace.Execute(ctx, c.tmpl, "OrderController.request()", func(ctx context.Context) (string, error) {
		if err := c.service.OrderItem(ctx, itemID); err != nil {
			return "", err
		}
		return "ok", nil
	})
}

// Simulate runs one request per item concurrently, each on its own
// execution context, starting them stagger apart. It returns each request's
// error in item order.
func Simulate(ctx context.Context, clock clockz.Clock, c *Controller, stagger time.Duration, items ...string) []error {
	errs := make([]error, len(items))
	var wg sync.WaitGroup

	for i, item := range items {
		if i > 0 && stagger > 0 {
			select {
			case <-clock.After(stagger):
			case <-ctx.Done():
				errs[i] = ctx.Err()
				continue
			}
		}

		wg.Add(1)
		go func(i int, item string) {
			defer wg.Done()
			_, errs[i] = c.Request(logtrace.NewContext(ctx), item)
		}(i, item)
	}

	wg.Wait()
	return errs
}
