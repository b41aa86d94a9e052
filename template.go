package logtrace

import (
	"context"
	"errors"
	"fmt"
)

// ErrAborted is logged when a unit of work leaves through runtime.Goexit,
// for example a failing test helper calling t.FailNow.
var ErrAborted = errors.New("logtrace: unit of work exited without returning")

// PanicError describes a panic observed by a Template. It is only logged;
// the original value is re-panicked.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Template runs units of work between Begin and End, or Exception when the
// work fails, so callers never write the triad by hand.
type Template struct {
	trace LogTrace
}

// NewTemplate wraps trace.
func NewTemplate(trace LogTrace) *Template {
	return &Template{trace: trace}
}

// Run traces fn under message and returns fn's error unchanged.
func (t *Template) Run(ctx context.Context, message string, fn func(ctx context.Context) error) error {
	_, err := Execute(ctx, t, message, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Execute traces fn under message and returns its result and error
// unchanged. A failing fn is logged once through Exception; a panicking fn
// is logged the same way and the panic continues with its original value.
func Execute[R any](ctx context.Context, t *Template, message string, fn func(ctx context.Context) (R, error)) (R, error) {
	status := t.trace.Begin(ctx, message)

	closed := false
	defer func() {
		if closed {
			return
		}
		r := recover()
		if r == nil {
			t.trace.Exception(ctx, status, ErrAborted)
			return
		}
		t.trace.Exception(ctx, status, &PanicError{Value: r})
		panic(r)
	}()

	result, err := fn(ctx)
	closed = true

	if err != nil {
		t.trace.Exception(ctx, status, err)
		return result, err
	}
	t.trace.End(ctx, status)
	return result, nil
}
