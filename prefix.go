package logtrace

import (
	"fmt"
	"strings"
	"time"
)

// Marker is the terminal symbol of a rendered prefix.
type Marker int

// Markers for entry, normal exit and exceptional exit.
const (
	MarkerBegin Marker = iota
	MarkerEnd
	MarkerException
)

const indentUnit = "|   "

// String returns the marker's symbol.
func (m Marker) String() string {
	switch m {
	case MarkerBegin:
		return "-->"
	case MarkerEnd:
		return "<--"
	case MarkerException:
		return "<X-"
	default:
		return "???"
	}
}

// RenderPrefix returns level indent units followed by the marker.
// Negative levels render like level 0.
func RenderPrefix(level int, m Marker) string {
	if level < 0 {
		level = 0
	}
	var b strings.Builder
	b.Grow(level*len(indentUnit) + 3)
	for i := 0; i < level; i++ {
		b.WriteString(indentUnit)
	}
	b.WriteString(m.String())
	return b.String()
}

func renderBegin(id TraceID, message string) string {
	return fmt.Sprintf("[%s] %s %s", id.ID(), RenderPrefix(id.Level(), MarkerBegin), message)
}

func renderEnd(id TraceID, message string, elapsed time.Duration) string {
	return fmt.Sprintf("[%s] %s %s time=%dms",
		id.ID(), RenderPrefix(id.Level(), MarkerEnd), message, elapsed.Milliseconds())
}

func renderException(id TraceID, message string, elapsed time.Duration, err error) string {
	return fmt.Sprintf("[%s] %s %s time=%dms ex=%v",
		id.ID(), RenderPrefix(id.Level(), MarkerException), message, elapsed.Milliseconds(), err)
}
