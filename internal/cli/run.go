package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/undoable/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Filter string // glob matched against scenario file names
}

// RunResult is the run command's JSON payload.
type RunResult struct {
	Files []string `json:"files"`
	*harness.SuiteResult
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario-dir|file>...",
		Short: "Run conformance scenarios",
		Long: `Run YAML conformance scenarios against the reference reducers.

Directories are searched recursively for .yaml and .yml files.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing paths, invalid filter)

Examples:
  undoctl run ./scenarios
  undoctl run ./scenarios --filter "counter_*"
  undoctl run ./scenarios/list_init_replay.yaml --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenario files by glob pattern")

	return cmd
}

func runScenarios(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	logger, err := opts.Logger(cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid log level", err)
	}

	files, err := harness.FindScenarios(paths, opts.Filter)
	if err != nil {
		var notFound *harness.ScenarioNotFoundError
		if errors.As(err, &notFound) {
			return formatter.fail(ExitCommandError, ErrCodeNotFound, notFound.Error(), nil)
		}
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "failed to find scenarios", err)
	}
	formatter.VerboseLog("Found %d scenario file(s)", len(files))

	suite := harness.RunSuite(files, harness.WithLogger(logger))
	result := RunResult{Files: files, SuiteResult: suite}
	if result.Files == nil {
		result.Files = []string{}
	}

	if err := formatter.Success("", result, formatRunText(result)); err != nil {
		return err
	}
	if suite.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", suite.Failed, suite.Total))
	}
	return nil
}

func formatRunText(result RunResult) string {
	if result.Total == 0 {
		return "No scenarios found.\n"
	}

	var b strings.Builder
	for _, f := range result.Failures {
		name := f.Scenario
		if name == "" {
			name = f.Path
		}
		fmt.Fprintf(&b, "✗ %s\n", name)
		for _, e := range f.Errors {
			for _, line := range strings.Split(strings.TrimRight(e, "\n"), "\n") {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}
	}
	fmt.Fprintf(&b, "%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	return b.String()
}
