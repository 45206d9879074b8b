package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/undoable/internal/harness"
)

// LoadError describes a scenario file that could not be loaded.
type LoadError struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
}

// loadScenarios loads every file, collecting one LoadError per failure
// rather than stopping at the first.
func loadScenarios(files []string) ([]*harness.Scenario, []error) {
	var scenarios []*harness.Scenario
	var errs []error

	for _, path := range files {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			errs = append(errs, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file not found"})
			continue
		}

		scenario, err := harness.LoadScenario(path)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeInvalid, Path: path, Message: err.Error()})
			continue
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, errs
}
