package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	LogLevel string // slog level name; --verbose forces debug
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Logger returns a text logger on w at the configured level.
func (o *RootOptions) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLogLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// NewRootCommand creates the root command for the undoctl CLI.
// Flag defaults come from the environment (UNDOCTL_FORMAT,
// UNDOCTL_LOG_LEVEL).
func NewRootCommand() *cobra.Command {
	cfg := EnvConfig{}
	envErr := ParseEnv(&cfg)

	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "undoctl",
		Short: "undoctl - undo/redo history for reducers",
		Long: `Developer tool for the undoable history wrapper.

Runs YAML conformance scenarios against the reference reducers, validates
scenario files and replays action lists.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", envErr)
			}
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := parseLogLevel(opts.LogLevel); err != nil {
				return WrapExitError(ExitCommandError, "invalid log level", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}
