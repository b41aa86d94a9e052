package logtrace

import (
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLogger returns a logger whose Info and Error lines are kept in
// memory.
func newObservedLogger() (logr.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zapr.NewLogger(zap.New(core)), logs
}

func messages(logs *observer.ObservedLogs) []string {
	entries := logs.All()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

// sequenceIDs returns a generator yielding ids in order, then "overflow".
func sequenceIDs(ids ...string) func() string {
	var mu sync.Mutex
	next := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(ids) {
			return "overflow"
		}
		id := ids[next]
		next++
		return id
	}
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d lines, got %d:\n%q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Line %d:\n got: %q\nwant: %q", i, got[i], want[i])
		}
	}
}
