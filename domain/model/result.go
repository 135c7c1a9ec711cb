package model

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// ItemOutcome records the result of processing a single queue item.
// Exactly one of OutputPath (success) or Reason (failure) is set.
type ItemOutcome struct {
	InputPath  string
	OutputPath string
	Reason     string
	Elapsed    time.Duration
}

// OK reports whether the item converted successfully.
func (o ItemOutcome) OK() bool { return o.Reason == "" }

// BatchResult aggregates the outcome of one batch run.
type BatchResult struct {
	ID          string
	Total       int
	Outcomes    []ItemOutcome
	OutputDir   string
	StartedAt   time.Time
	CompletedAt time.Time
}

// Succeeded returns the number of successfully converted items.
func (r *BatchResult) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the number of items whose conversion failed.
func (r *BatchResult) Failed() int {
	return len(r.Outcomes) - r.Succeeded()
}

// Err combines every per-item failure into a single error, or nil when all
// items converted. Individual failures remain inspectable via multierr.Errors.
func (r *BatchResult) Err() error {
	var err error
	for _, o := range r.Outcomes {
		if !o.OK() {
			err = multierr.Append(err, fmt.Errorf("%s: %s", o.InputPath, o.Reason))
		}
	}
	return err
}

// Summary renders the terminal one-line report for the run.
func (r *BatchResult) Summary() string {
	return fmt.Sprintf("processed %d file(s): %d ok, %d failed -> %s",
		r.Total, r.Succeeded(), r.Failed(), r.OutputDir)
}
