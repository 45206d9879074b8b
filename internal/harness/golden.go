package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/undoable/history"
	"github.com/roach88/undoable/internal/testutil"
	"github.com/roach88/undoable/internal/tracelog"
	"github.com/roach88/undoable/value"
)

// TraceSnapshot captures the trace and final envelope of a run.
// It is serialized as canonical JSON for byte-exact comparison.
type TraceSnapshot struct {
	ScenarioName string
	RunID        string
	Trace        []tracelog.Entry
	Final        *history.State[value.Value]
}

// toCanonicalMap converts the snapshot into the plain shapes
// value.MarshalCanonical accepts. Absent present values are omitted.
func (s *TraceSnapshot) toCanonicalMap() (map[string]any, error) {
	trace := make([]any, len(s.Trace))
	for i, entry := range s.Trace {
		payload, err := value.Unmarshal([]byte(entry.Payload))
		if err != nil {
			return nil, fmt.Errorf("trace[%d] payload: %w", i, err)
		}
		trace[i] = map[string]any{
			"seq":         entry.Seq,
			"step":        entry.Step,
			"type":        entry.ActionType,
			"replay":      entry.Replay,
			"payload":     payload,
			"fingerprint": entry.Fingerprint,
		}
	}

	final := map[string]any{
		"past":   actionsToCanonical(nil),
		"future": actionsToCanonical(nil),
	}
	if s.Final != nil {
		final["past"] = actionsToCanonical(s.Final.Past)
		final["future"] = actionsToCanonical(s.Final.Future)
		if s.Final.HasPresent && !value.Equal(s.Final.Present, value.Null{}) {
			final["present"] = s.Final.Present
		}
	}

	return map[string]any{
		"scenario": s.ScenarioName,
		"run_id":   s.RunID,
		"trace":    trace,
		"final":    final,
	}, nil
}

func actionsToCanonical(actions []history.Action) []any {
	out := make([]any, len(actions))
	for i, a := range actions {
		m := map[string]any{"type": string(a.Type)}
		if len(a.Payload) > 0 {
			m["payload"] = a.Payload
		}
		out[i] = m
	}
	return out
}

// CanonicalTrace renders a result as canonical JSON.
func CanonicalTrace(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{
		ScenarioName: scenarioName,
		RunID:        result.RunID,
		Trace:        result.Trace,
		Final:        result.Final,
	}
	m, err := snapshot.toCanonicalMap()
	if err != nil {
		return nil, err
	}
	return value.MarshalCanonical(m)
}

// RunWithGolden executes a scenario and compares its canonical trace with
// testdata/golden/{scenario.Name}.golden.
//
// Run IDs are fixed (the scenario's run_id, or "test-run-default") so the
// output is stable. To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot run. A trace mismatch fails t.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, WithRunIDGenerator(testutil.NewFixedRunID(scenario.RunID)))
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result with its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := CanonicalTrace(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
