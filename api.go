// Package logtrace provides a minimal, in-process call tracer.
//
// logtrace writes a hierarchical, indented log of nested calls within one
// logical request. Every line carries the request's trace id and is indented
// by the call's nesting level, so a single request reads like a call tree:
//
//	[3f2a9c1e] --> OrderController.request()
//	[3f2a9c1e] |   --> OrderService.orderItem()
//	[3f2a9c1e] |   |   --> OrderRepository.save()
//	[3f2a9c1e] |   |   <-- OrderRepository.save() time=1004ms
//	[3f2a9c1e] |   <-- OrderService.orderItem() time=1005ms
//	[3f2a9c1e] <-- OrderController.request() time=1005ms
//
// Core Components:
//   - TraceID: request id plus nesting level.
//   - TraceStatus: snapshot returned by Begin and consumed by End/Exception.
//   - LogTrace: the engine contract, with two strategies.
//   - Template: wraps a unit of work in Begin/End/Exception.
//
// Basic Usage:
//
//	trace := logtrace.NewContextLogTrace(log)
//	ctx = logtrace.NewContext(ctx) // once per request or worker
//
//	status := trace.Begin(ctx, "OrderService.orderItem()")
//	if err := repo.Save(ctx, itemID); err != nil {
//		trace.Exception(ctx, status, err)
//		return err
//	}
//	trace.End(ctx, status)
//
// Or, equivalently:
//
//	tmpl := logtrace.NewTemplate(trace)
//	err := tmpl.Run(ctx, "OrderService.orderItem()", func(ctx context.Context) error {
//		return repo.Save(ctx, itemID)
//	})
//
// Execution Contexts:
//
// Goroutines have no thread-local storage, so the per-request nesting state
// lives in a Holder carried by context.Context. Install one with NewContext at
// the request boundary. Workers that reuse one context across unrelated jobs
// must call Clear between jobs.
//
// FieldLogTrace keeps that state in one shared field instead. It is retained
// as a known-broken reference: concurrent requests corrupt each other's id
// and level. Do not use it outside of tests and demonstrations.
//
// Thread Safety:
//
// All engines are safe for concurrent use. Calls on one execution context
// must nest in strict LIFO order; ordering across contexts is unconstrained.
package logtrace

// Message names the traced operation, typically "Type.method()".
type Message = string
