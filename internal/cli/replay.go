package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/undoable/history"
	"github.com/roach88/undoable/internal/harness"
	"github.com/roach88/undoable/internal/reducers"
	"github.com/roach88/undoable/internal/testutil"
	"github.com/roach88/undoable/internal/tracelog"
	"github.com/roach88/undoable/value"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Reducer string
	Initial string // JSON value; empty selects the reducer's default state
	TraceDB string // optional SQLite file recording every reducer call
}

// ReplayResult is the replay command's payload.
type ReplayResult struct {
	Reducer     string `json:"reducer"`
	Actions     int    `json:"actions"`
	Result      any    `json:"result"`
	Fingerprint string `json:"fingerprint"`
	TraceDB     string `json:"trace_db,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <actions.yaml>",
		Short: "Fold an action list through a reducer",
		Long: `Replay a YAML list of actions onto an initial state, the way history
rebuilds the present on undo.

Each action is marked as a replay before it reaches the reducer, and a
replay-finished marker is applied last. The result is printed with its
content fingerprint.

Exit codes:
  0 - Replay succeeded
  2 - Command error (unknown reducer, unreadable actions, bad initial value)

Examples:
  undoctl replay --reducer counter actions.yaml
  undoctl replay --reducer list --initial '["a"]' actions.yaml
  undoctl replay --reducer counter --trace-db trace.db actions.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Reducer, "reducer", "counter", fmt.Sprintf("reducer name %v", reducers.Names()))
	cmd.Flags().StringVar(&opts.Initial, "initial", "", "initial state as JSON (default: reducer default)")
	cmd.Flags().StringVar(&opts.TraceDB, "trace-db", "", "record every reducer call to this SQLite file")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	base, err := reducers.Lookup(opts.Reducer)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeReducer, "unknown reducer", err)
	}

	initial := base(nil, history.Action{})
	if opts.Initial != "" {
		initial, err = value.Unmarshal([]byte(opts.Initial))
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeReducer, "invalid initial value", err)
		}
	}

	actions, err := harness.LoadActions(path)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeLoadFailed, "failed to load actions", err)
	}
	formatter.VerboseLog("Replaying %d action(s) through %s", len(actions), opts.Reducer)

	reducer := base
	var recordErr error
	if opts.TraceDB != "" {
		tl, err := openEmptyTrace(ctx, opts.TraceDB)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeTrace, "failed to open trace database", err)
		}
		defer tl.Close()
		reducer = recordingReducer(ctx, tl, base, &recordErr)
	}

	out := history.Replay(initial, actions, reducer)
	if recordErr != nil {
		return formatter.fail(ExitCommandError, ErrCodeTrace, "failed to record trace", recordErr)
	}

	fp, err := value.Fingerprint(value.DomainState, out)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "failed to fingerprint result", err)
	}

	result := ReplayResult{
		Reducer:     opts.Reducer,
		Actions:     len(actions),
		Result:      value.ToAny(out),
		Fingerprint: fp,
		TraceDB:     opts.TraceDB,
	}
	text := fmt.Sprintf("result: %s\nfingerprint: %s\n", formatJSON(out), fp)
	return formatter.Success("", result, text)
}

// openEmptyTrace opens the trace database at path and checks that it holds
// no entries, so sequence numbers start at 1.
func openEmptyTrace(ctx context.Context, path string) (*tracelog.Log, error) {
	tl, err := tracelog.Open(path)
	if err != nil {
		return nil, err
	}
	entries, err := tl.Entries(ctx)
	if err != nil {
		tl.Close()
		return nil, err
	}
	if len(entries) > 0 {
		tl.Close()
		return nil, fmt.Errorf("%s already holds %d entries", path, len(entries))
	}
	return tl, nil
}

// recordingReducer appends every call to tl, in call order, before applying
// base. The first append error is kept in errp and recording stops.
func recordingReducer(ctx context.Context, tl *tracelog.Log, base reducers.Reducer, errp *error) reducers.Reducer {
	clock := testutil.NewDeterministicClock()
	return func(state value.Value, action history.Action) value.Value {
		if *errp == nil {
			entry, err := tracelog.NewEntry(clock.Next(), 0, action)
			if err == nil {
				err = tl.Append(ctx, entry)
			}
			*errp = err
		}
		return base(state, action)
	}
}

func formatJSON(v value.Value) string {
	data, err := value.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
