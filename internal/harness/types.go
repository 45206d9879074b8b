package harness

import (
	"github.com/roach88/undoable/history"
	"github.com/roach88/undoable/internal/tracelog"
	"github.com/roach88/undoable/value"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// RunID identifies this execution.
	RunID string `json:"run_id"`

	// Trace holds every base-reducer call, ordered by seq.
	Trace []tracelog.Entry `json:"trace"`

	// Errors holds expect and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the envelope after the last step.
	Final *history.State[value.Value] `json:"final"`
}

// NewResult creates a passing result with no trace.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Trace:  []tracelog.Entry{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
