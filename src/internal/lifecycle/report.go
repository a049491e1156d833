package lifecycle

import (
	stderrors "errors"
	"fmt"
)

type Operation string

const (
	OpStart   Operation = "start"
	OpStop    Operation = "stop"
	OpRestart Operation = "restart"
)

// ItemResult is the outcome of one step of an operation. Target names what
// the step acted on: a LAN id, "firewall", "namespace" or "lock".
type ItemResult struct {
	Step   string `json:"step"`
	Target string `json:"target"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`

	err error
}

// Report lists what an operation did. Operations that return a Report with a
// nil error were completed; failed items make them partial.
type Report struct {
	RouterID  string       `json:"routerId"`
	Operation Operation    `json:"operation"`
	Namespace string       `json:"namespace"`
	Items     []ItemResult `json:"items"`
}

func newReport(routerID string, op Operation, ns string) *Report {
	return &Report{RouterID: routerID, Operation: op, Namespace: ns}
}

func (r *Report) add(step, target string, err error) {
	item := ItemResult{Step: step, Target: target, OK: err == nil, err: err}
	if err != nil {
		item.Error = err.Error()
	}
	r.Items = append(r.Items, item)
}

// Partial reports whether any item failed.
func (r *Report) Partial() bool {
	for _, item := range r.Items {
		if !item.OK {
			return true
		}
	}
	return false
}

// Err joins item failures, nil when every item succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, item := range r.Items {
		if item.OK {
			continue
		}
		err := item.err
		if err == nil {
			err = stderrors.New(item.Error)
		}
		errs = append(errs, fmt.Errorf("%s %s: %w", item.Step, item.Target, err))
	}
	return stderrors.Join(errs...)
}

// Failed returns the failed items.
func (r *Report) Failed() []ItemResult {
	var out []ItemResult
	for _, item := range r.Items {
		if !item.OK {
			out = append(out, item)
		}
	}
	return out
}
