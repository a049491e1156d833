package lifecycle

import (
	"time"
)

type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// Event describes one finished lifecycle operation.
type Event struct {
	RouterID  string
	Operation Operation
	StartedAt time.Time
	Duration  time.Duration
	// Report is nil when the operation failed before doing anything.
	Report *Report
	Err    error
}

func (e Event) Outcome() Outcome {
	switch {
	case e.Err != nil:
		return OutcomeFailed
	case e.Report != nil && e.Report.Partial():
		return OutcomePartial
	default:
		return OutcomeOK
	}
}

// Sink receives every lifecycle event. Implementations must not block for long.
type Sink interface {
	Record(event Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(event Event)

func (f SinkFunc) Record(event Event) {
	f(event)
}
