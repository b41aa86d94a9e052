package logtrace

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/zoobzio/clockz"
)

func TestExecuteReturnsResult(t *testing.T) {
	log, logs := newObservedLogger()
	clock := clockz.NewFakeClock()
	trace := NewContextLogTrace(log).WithClock(clock).WithIDGenerator(sequenceIDs("aaaa0001"))
	tmpl := NewTemplate(trace)
	ctx := NewContext(context.Background())

	got, err := Execute(ctx, tmpl, "Controller.request()", func(ctx context.Context) (string, error) {
		clock.Advance(12 * time.Millisecond)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("Expected result 'ok', got %q", got)
	}

	assertLines(t, messages(logs), []string{
		"[aaaa0001] --> Controller.request()",
		"[aaaa0001] <-- Controller.request() time=12ms",
	})
}

type rejectedError struct{ item string }

func (e *rejectedError) Error() string { return "rejected " + e.item }

func TestExecutePropagatesOriginalError(t *testing.T) {
	log, logs := newObservedLogger()
	trace := NewContextLogTrace(log).WithIDGenerator(sequenceIDs("aaaa0001"))
	tmpl := NewTemplate(trace)
	ctx := NewContext(context.Background())
	failure := &rejectedError{item: "ex"}

	_, err := Execute(ctx, tmpl, "Repository.save()", func(context.Context) (int, error) {
		return 0, failure
	})

	var rejected *rejectedError
	if !errors.As(err, &rejected) || rejected != failure {
		t.Fatalf("Expected the identical error value back, got %#v", err)
	}

	lines := messages(logs)
	assertLines(t, lines, []string{
		"[aaaa0001] --> Repository.save()",
		"[aaaa0001] <X- Repository.save() time=0ms ex=rejected ex",
	})
	if _, ok := Current(ctx); ok {
		t.Error("Expected the failed call to unwind")
	}
}

func TestRunNestedFailureLogsEachLevelOnce(t *testing.T) {
	log, logs := newObservedLogger()
	trace := NewContextLogTrace(log).WithIDGenerator(sequenceIDs("aaaa0001"))
	tmpl := NewTemplate(trace)
	ctx := NewContext(context.Background())
	failure := errors.New("illegal item")

	err := tmpl.Run(ctx, "outer", func(ctx context.Context) error {
		return tmpl.Run(ctx, "inner", func(context.Context) error {
			return failure
		})
	})
	if err != failure { //nolint:errorlint // identity is the property under test
		t.Fatalf("Expected original error, got %v", err)
	}

	assertLines(t, messages(logs), []string{
		"[aaaa0001] --> outer",
		"[aaaa0001] |   --> inner",
		"[aaaa0001] |   <X- inner time=0ms ex=illegal item",
		"[aaaa0001] <X- outer time=0ms ex=illegal item",
	})
}

func TestExecuteRepanicsWithOriginalValue(t *testing.T) {
	log, logs := newObservedLogger()
	trace := NewContextLogTrace(log).WithIDGenerator(sequenceIDs("aaaa0001"))
	tmpl := NewTemplate(trace)
	ctx := NewContext(context.Background())
	cause := errors.New("nil map")

	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		_ = tmpl.Run(ctx, "panicky", func(context.Context) error {
			panic(cause)
		})
	}()

	if recovered != cause { //nolint:errorlint // identity is the property under test
		t.Fatalf("Expected original panic value, got %v", recovered)
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(entries))
	}
	if entries[1].Message != "[aaaa0001] <X- panicky time=0ms ex=panic: nil map" {
		t.Errorf("Unexpected exception line %q", entries[1].Message)
	}
	if _, ok := Current(ctx); ok {
		t.Error("Expected the panicking call to unwind")
	}
}

func TestExecuteGoexitLogsAborted(t *testing.T) {
	log, logs := newObservedLogger()
	trace := NewContextLogTrace(log).WithIDGenerator(sequenceIDs("aaaa0001"))
	tmpl := NewTemplate(trace)
	ctx := NewContext(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = tmpl.Run(ctx, "exits", func(context.Context) error {
			runtime.Goexit()
			return nil
		})
	}()
	<-done

	lines := messages(logs)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", lines)
	}
	if lines[1] != "[aaaa0001] <X- exits time=0ms ex="+ErrAborted.Error() {
		t.Errorf("Unexpected exception line %q", lines[1])
	}
}

func TestPanicErrorUnwrap(t *testing.T) {
	cause := errors.New("cause")
	if !errors.Is(&PanicError{Value: cause}, cause) {
		t.Error("Expected PanicError to unwrap an error value")
	}
	if (&PanicError{Value: "text"}).Unwrap() != nil {
		t.Error("Expected nil Unwrap for a non-error value")
	}
}

func TestTemplateWithFieldStrategy(t *testing.T) {
	log, logs := newObservedLogger()
	tmpl := NewTemplate(NewFieldLogTrace(log).WithIDGenerator(sequenceIDs("aaaa0001")))

	err := tmpl.Run(context.Background(), "outer", func(ctx context.Context) error {
		return tmpl.Run(ctx, "inner", func(context.Context) error { return nil })
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	assertLines(t, messages(logs), []string{
		"[aaaa0001] --> outer",
		"[aaaa0001] |   --> inner",
		"[aaaa0001] |   <-- inner time=0ms",
		"[aaaa0001] <-- outer time=0ms",
	})
}
