// Package harness runs YAML conformance scenarios against history-wrapped
// reference reducers.
//
// A scenario names a reducer from package reducers, a history configuration,
// an optional starting envelope, a list of dispatch steps and a set of
// assertions. Run wraps the reducer with a recorder that logs every call
// into the base reducer (live actions, replayed copies and replay-finished
// markers) to an in-memory tracelog, then dispatches each step through
// history.Reduce and checks the step's expect clause.
//
// Traces are deterministic: sequence numbers come from a logical clock and
// payloads are canonical JSON, so the same scenario always produces the same
// bytes. RunWithGolden compares that canonical trace with a golden file under
// testdata/golden.
//
// Scenario format:
//
//	name: counter-undo
//	description: Undo replays the remaining past
//	reducer: counter
//	config:
//	  include: [INCREMENT]
//	steps:
//	  - dispatch: {type: "@@store/INIT"}
//	  - dispatch: {type: INCREMENT, payload: {by: 2}}
//	    expect: {present: 2, past: 1}
//	  - dispatch: {type: "@@undoable/UNDO"}
//	    expect: {present: 0, past: 0, future: 1}
//	assertions:
//	  - type: replay_count
//	    count: 0
//
// Supported assertions: trace_contains, trace_order, trace_count,
// replay_count and final_present.
package harness
