package logtrace

import "time"

// TraceStatus is the snapshot returned by Begin. Pass it unchanged to exactly
// one of End or Exception.
//
// The zero value is accepted by End and Exception; it renders with an empty
// id at level 0.
type TraceStatus struct {
	startTime time.Time
	message   string
	traceID   TraceID
}

func newTraceStatus(traceID TraceID, startTime time.Time, message string) TraceStatus {
	return TraceStatus{traceID: traceID, startTime: startTime, message: message}
}

// TraceID returns the id and level in effect for the traced call.
func (s TraceStatus) TraceID() TraceID {
	return s.traceID
}

// StartTime returns when Begin was called.
func (s TraceStatus) StartTime() time.Time {
	return s.startTime
}

// Message returns the description passed to Begin.
func (s TraceStatus) Message() string {
	return s.message
}
