package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/undoable/internal/tracelog"
	"github.com/roach88/undoable/value"
)

// AssertionError is returned when an assertion fails.
// It carries the trace to help debug the failure.
type AssertionError struct {
	Type     string           // Assertion type for categorization
	Expected string           // Human-readable expected outcome
	Actual   string           // Human-readable actual outcome
	Trace    []tracelog.Entry // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, entry := range e.Trace {
			replay := ""
			if entry.Replay {
				replay = " (replay)"
			}
			fmt.Fprintf(&buf, "  [%d] %s %s%s\n", entry.Seq, entry.ActionType, entry.Payload, replay)
		}
	}
	return buf.String()
}

// AssertionContext provides trace access for assertions that query the log.
type AssertionContext struct {
	Trace *tracelog.Log
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = withTrace(i, assertion, actx, func() error {
				return assertTraceOrder(actx, result.Trace, assertion)
			})
		case AssertTraceCount:
			err = withTrace(i, assertion, actx, func() error {
				return assertTraceCount(actx, result.Trace, assertion)
			})
		case AssertReplayCount:
			err = withTrace(i, assertion, actx, func() error {
				return assertReplayCount(actx, result.Trace, assertion)
			})
		case AssertFinalPresent:
			err = assertFinalPresent(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func withTrace(i int, a Assertion, actx *AssertionContext, fn func() error) error {
	if actx == nil || actx.Trace == nil {
		return fmt.Errorf("assertion[%d]: %s requires trace context", i, a.Type)
	}
	return fn()
}

// assertTraceContains checks that some call matches the action type, the
// replay flag if given, and the payload (subset match).
func assertTraceContains(trace []tracelog.Entry, a Assertion) error {
	want, err := value.ObjectFromAny(a.Payload)
	if err != nil {
		return fmt.Errorf("trace_contains: payload: %w", err)
	}

	for _, entry := range trace {
		if entry.ActionType != a.Action || !replayMatches(entry, a.Replay) {
			continue
		}
		if matchPayload(entry.Payload, want) {
			return nil
		}
	}

	expected := fmt.Sprintf("action %s", a.Action)
	if len(want) > 0 {
		expected += fmt.Sprintf(" with payload %s", formatValue(want))
	}
	if a.Replay != nil {
		expected += fmt.Sprintf(" (replay=%t)", *a.Replay)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the first occurrence of each action comes
// after the first occurrence of the one before it.
func assertTraceOrder(actx *AssertionContext, trace []tracelog.Entry, a Assertion) error {
	positions := make([]int64, len(a.Actions))
	for i, action := range a.Actions {
		seq, ok, err := actx.Trace.FirstSeq(actx.Ctx, action)
		if err != nil {
			return err
		}
		if !ok {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all actions present: %v", a.Actions),
				Actual:   fmt.Sprintf("missing action: %s", action),
				Trace:    trace,
			}
		}
		positions[i] = seq
	}

	for i := 1; i < len(a.Actions); i++ {
		if positions[i-1] >= positions[i] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order: %v", a.Actions),
				Actual: fmt.Sprintf("%s (seq %d) should be before %s (seq %d)",
					a.Actions[i-1], positions[i-1], a.Actions[i], positions[i]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks how many times the base reducer saw the action.
// With replay set, only replayed or only live calls are counted.
func assertTraceCount(actx *AssertionContext, trace []tracelog.Entry, a Assertion) error {
	var count int
	if a.Replay == nil {
		n, err := actx.Trace.CountByType(actx.Ctx, a.Action)
		if err != nil {
			return err
		}
		count = n
	} else {
		for _, entry := range trace {
			if entry.ActionType == a.Action && replayMatches(entry, a.Replay) {
				count++
			}
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertReplayCount checks the total number of replayed calls.
func assertReplayCount(actx *AssertionContext, trace []tracelog.Entry, a Assertion) error {
	count, err := actx.Trace.ReplayCount(actx.Ctx)
	if err != nil {
		return err
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertReplayCount,
			Expected: fmt.Sprintf("%d replayed calls", a.Count),
			Actual:   fmt.Sprintf("%d replayed calls", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalPresent checks the present value after the last step.
func assertFinalPresent(result *Result, a Assertion) error {
	want, err := value.FromAny(a.Value)
	if err != nil {
		return fmt.Errorf("final_present: value: %w", err)
	}

	final := result.Final
	if final == nil || !final.HasPresent {
		return &AssertionError{
			Type:     AssertFinalPresent,
			Expected: formatValue(want),
			Actual:   "present is not set",
		}
	}
	if !value.Equal(want, final.Present) {
		return &AssertionError{
			Type:     AssertFinalPresent,
			Expected: formatValue(want),
			Actual:   formatValue(final.Present),
		}
	}
	return nil
}

func replayMatches(entry tracelog.Entry, replay *bool) bool {
	return replay == nil || entry.Replay == *replay
}

// matchPayload reports whether every key of want is present in the
// canonical payload with an equal value. Extra keys are ignored.
func matchPayload(canonical string, want value.Object) bool {
	if len(want) == 0 {
		return true
	}
	got, err := value.Unmarshal([]byte(canonical))
	if err != nil {
		return false
	}
	obj, ok := got.(value.Object)
	if !ok {
		return false
	}
	for k, v := range want {
		actual, exists := obj[k]
		if !exists || !value.Equal(v, actual) {
			return false
		}
	}
	return true
}
