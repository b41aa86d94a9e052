package logtrace

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/zoobzio/clockz"
)

// TestOrderFlowGolden pins the rendered output of a successful request
// traced by hand and a failing one traced through the template.
func TestOrderFlowGolden(t *testing.T) {
	log, logs := newObservedLogger()
	clock := clockz.NewFakeClock()
	trace := NewContextLogTrace(log).
		WithClock(clock).
		WithIDGenerator(sequenceIDs("3f2a9c1e", "7bd04e52"))

	ctx := NewContext(context.Background())
	controller := trace.Begin(ctx, "OrderController.request()")
	service := trace.Begin(ctx, "OrderService.orderItem()")
	repository := trace.Begin(ctx, "OrderRepository.save()")
	clock.Advance(1000 * time.Millisecond)
	trace.End(ctx, repository)
	clock.Advance(2 * time.Millisecond)
	trace.End(ctx, service)
	clock.Advance(1 * time.Millisecond)
	trace.End(ctx, controller)

	tmpl := NewTemplate(trace)
	failure := errors.New("illegal item")
	ctx = NewContext(context.Background())
	_ = tmpl.Run(ctx, "OrderController.request()", func(ctx context.Context) error {
		return tmpl.Run(ctx, "OrderService.orderItem()", func(ctx context.Context) error {
			return tmpl.Run(ctx, "OrderRepository.save()", func(context.Context) error {
				return failure
			})
		})
	})

	g := goldie.New(t)
	g.Assert(t, "order_flow", []byte(strings.Join(messages(logs), "\n")+"\n"))
}
