package logtrace

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRenderPrefix(t *testing.T) {
	tests := []struct {
		level  int
		marker Marker
		want   string
	}{
		{0, MarkerBegin, "-->"},
		{0, MarkerEnd, "<--"},
		{0, MarkerException, "<X-"},
		{1, MarkerBegin, "|   -->"},
		{2, MarkerEnd, "|   |   <--"},
		{3, MarkerException, "|   |   |   <X-"},
		{-2, MarkerBegin, "-->"},
	}

	for _, tt := range tests {
		if got := RenderPrefix(tt.level, tt.marker); got != tt.want {
			t.Errorf("RenderPrefix(%d, %v) = %q, want %q", tt.level, tt.marker, got, tt.want)
		}
	}
}

func TestRenderPrefixWidthIsLevelProportional(t *testing.T) {
	for level := 0; level < 10; level++ {
		var widths []int
		for _, m := range []Marker{MarkerBegin, MarkerEnd, MarkerException} {
			p := RenderPrefix(level, m)
			if strings.Count(p, indentUnit) != level {
				t.Errorf("Level %d: expected %d indent units in %q", level, level, p)
			}
			widths = append(widths, len(p))
		}
		if widths[0] != widths[1] || widths[1] != widths[2] {
			t.Errorf("Level %d: markers render at different widths %v", level, widths)
		}
	}
}

func TestRenderPrefixIsPure(t *testing.T) {
	first := RenderPrefix(4, MarkerEnd)
	for i := 0; i < 100; i++ {
		if got := RenderPrefix(4, MarkerEnd); got != first {
			t.Fatalf("RenderPrefix not deterministic: %q vs %q", got, first)
		}
	}
}

func TestMarkersAreDistinct(t *testing.T) {
	seen := map[string]Marker{}
	for _, m := range []Marker{MarkerBegin, MarkerEnd, MarkerException} {
		if other, ok := seen[m.String()]; ok {
			t.Errorf("Markers %d and %d share symbol %q", m, other, m.String())
		}
		seen[m.String()] = m
	}
	if Marker(42).String() != "???" {
		t.Errorf("Expected unknown marker to render as ???, got %q", Marker(42).String())
	}
}

func TestRenderLines(t *testing.T) {
	id := NewTraceID("ab12cd34").Next()

	if got := renderBegin(id, "B"); got != "[ab12cd34] |   --> B" {
		t.Errorf("renderBegin = %q", got)
	}
	if got := renderEnd(id, "B", 1500*time.Microsecond); got != "[ab12cd34] |   <-- B time=1ms" {
		t.Errorf("renderEnd = %q", got)
	}
	if got := renderException(id, "B", 7*time.Millisecond, errors.New("boom")); got != "[ab12cd34] |   <X- B time=7ms ex=boom" {
		t.Errorf("renderException = %q", got)
	}
}
