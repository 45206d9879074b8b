package harness

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// validateSchema unifies the scenario document with #Scenario from the
// embedded schema. The YAML is re-encoded as JSON, which CUE reads natively.
func validateSchema(name string, data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("scenario is not JSON-compatible: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	scenario := ctx.CompileBytes(jsonData, cue.Filename(name))
	if err := scenario.Err(); err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(scenario)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
