package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Files  int          `json:"files"`
	Errors []*LoadError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate scenario files",
		Long: `Validate scenario files without running them.

Checks YAML syntax, unknown fields, the scenario schema, and that every
payload and expected value is a supported value type.

Exit codes:
  0 - All files valid
  1 - One or more files invalid`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	scenarios, errs := loadScenarios(files)
	for _, s := range scenarios {
		formatter.VerboseLog("valid: %s (%d steps, %d assertions)", s.Name, len(s.Steps), len(s.Assertions))
	}

	result := ValidationResult{Valid: len(errs) == 0, Files: len(files)}
	for _, err := range errs {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			result.Errors = append(result.Errors, loadErr)
		}
	}

	if err := formatter.Success("", result, formatValidateText(result)); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d files invalid", len(result.Errors), result.Files))
	}
	return nil
}

func formatValidateText(result ValidationResult) string {
	if result.Valid {
		return fmt.Sprintf("✓ %d file(s) valid\n", result.Files)
	}

	var b strings.Builder
	for _, e := range result.Errors {
		fmt.Fprintf(&b, "✗ %s\n  %s: %s\n", e.Path, e.Code, e.Message)
	}
	fmt.Fprintf(&b, "%d of %d file(s) invalid\n", len(result.Errors), result.Files)
	return b.String()
}
