package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/undoable/history"
	"github.com/roach88/undoable/internal/reducers"
	"github.com/roach88/undoable/internal/testutil"
	"github.com/roach88/undoable/internal/tracelog"
	"github.com/roach88/undoable/value"
)

// RunIDGenerator produces run IDs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	runIDs RunIDGenerator
	logger *slog.Logger
}

// WithRunIDGenerator sets the run ID source. A scenario with a fixed run_id
// ignores it.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(c *runConfig) { c.runIDs = g }
}

// WithLogger sets the logger handed to the history wrapper and used for step
// progress. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// Harness holds the per-run collaborators.
type Harness struct {
	trace  *tracelog.Log
	clock  *testutil.DeterministicClock
	logger *slog.Logger

	// step is the dispatch step the recorder stamps on entries; 0 before the
	// first step.
	step int64

	// recordErr is the first tracelog failure seen inside the recorder,
	// which cannot return errors itself.
	recordErr error
}

// Run executes a scenario and returns the result.
//
// Each run uses a fresh in-memory trace and a fresh logical clock, so
// results are reproducible. Expect and assertion failures are reported in
// the result; the error return is for scenarios that cannot run at all.
//
// Execution flow:
//  1. Look up the reducer and wrap it with the trace recorder
//  2. Build the history wrapper from the scenario config
//  3. Build the starting envelope
//  4. Dispatch each step and check its expect clause
//  5. Evaluate assertions against the trace and final envelope
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{
		runIDs: UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if scenario.RunID != "" {
		cfg.runIDs = testutil.NewFixedRunID(scenario.RunID)
	}

	base, err := reducers.Lookup(scenario.Reducer)
	if err != nil {
		return nil, err
	}

	tl, err := tracelog.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory trace: %w", err)
	}
	defer tl.Close()

	h := &Harness{
		trace:  tl,
		clock:  testutil.NewDeterministicClock(),
		logger: cfg.logger,
	}
	ctx := context.Background()

	hcfg := scenario.Config.historyConfig()
	hcfg.Logger = cfg.logger
	hist, err := history.New(h.recorder(ctx, base), hcfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	state := hist.Initial()
	if scenario.State != nil {
		state, err = scenario.State.toState(state)
		if err != nil {
			return nil, fmt.Errorf("invalid state: %w", err)
		}
	}

	result := NewResult(cfg.runIDs.Generate())
	state, err = h.executeSteps(hist, state, scenario.Steps, result)
	if err != nil {
		return nil, err
	}
	result.Final = state

	entries, err := tl.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	result.Trace = entries

	actx := &AssertionContext{Trace: tl, Ctx: ctx}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished",
		"scenario", scenario.Name,
		"run_id", result.RunID,
		"pass", result.Pass,
		"entries", len(result.Trace),
	)
	return result, nil
}

// recorder wraps base so every call is appended to the trace before base
// runs.
func (h *Harness) recorder(ctx context.Context, base reducers.Reducer) reducers.Reducer {
	return func(state value.Value, action history.Action) value.Value {
		if h.recordErr == nil {
			entry, err := tracelog.NewEntry(h.clock.Next(), h.step, action)
			if err == nil {
				err = h.trace.Append(ctx, entry)
			}
			h.recordErr = err
		}
		return base(state, action)
	}
}

// executeSteps dispatches every step in order and checks expect clauses.
func (h *Harness) executeSteps(
	hist *history.History[value.Value],
	state *history.State[value.Value],
	steps []Step,
	result *Result,
) (*history.State[value.Value], error) {
	for i, step := range steps {
		action, err := step.Dispatch.toAction()
		if err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}

		h.step = int64(i + 1)
		next := hist.Reduce(state, action)
		if h.recordErr != nil {
			return nil, fmt.Errorf("steps[%d]: record trace: %w", i, h.recordErr)
		}

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, state, next) {
				result.AddError(fmt.Sprintf("steps[%d] %s: %s", i, action.Type, msg))
			}
		}

		h.logger.Info("step completed",
			"step", i,
			"type", action.Type,
			"past", len(next.Past),
			"future", len(next.Future),
		)
		state = next
	}
	return state, nil
}

// checkExpect compares the envelope after a step with the expect clause.
func checkExpect(e *Expect, prev, next *history.State[value.Value]) []string {
	var errs []string

	if e.Present != nil {
		want, err := value.FromAny(e.Present)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("expect.present: %v", err))
		case !next.HasPresent:
			errs = append(errs, fmt.Sprintf("present is not set, want %s", formatValue(want)))
		case !value.Equal(want, next.Present):
			errs = append(errs, fmt.Sprintf("present = %s, want %s", formatValue(next.Present), formatValue(want)))
		}
	}
	if e.Past != nil && len(next.Past) != *e.Past {
		errs = append(errs, fmt.Sprintf("past length = %d, want %d", len(next.Past), *e.Past))
	}
	if e.Future != nil && len(next.Future) != *e.Future {
		errs = append(errs, fmt.Sprintf("future length = %d, want %d", len(next.Future), *e.Future))
	}
	if e.Same != nil && (prev == next) != *e.Same {
		errs = append(errs, fmt.Sprintf("same envelope = %t, want %t", prev == next, *e.Same))
	}
	if e.CanUndo != nil && next.CanUndo() != *e.CanUndo {
		errs = append(errs, fmt.Sprintf("can undo = %t, want %t", next.CanUndo(), *e.CanUndo))
	}
	if e.CanRedo != nil && next.CanRedo() != *e.CanRedo {
		errs = append(errs, fmt.Sprintf("can redo = %t, want %t", next.CanRedo(), *e.CanRedo))
	}
	return errs
}

// formatValue renders v as compact JSON for messages.
func formatValue(v value.Value) string {
	data, err := value.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
