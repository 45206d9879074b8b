package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/undoable/history"
	"github.com/roach88/undoable/value"
)

// Scenario defines a conformance scenario: a reducer, a history
// configuration, the actions to dispatch and what must hold afterwards.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Reducer names a base reducer registered in package reducers.
	Reducer string `yaml:"reducer"`

	// Config is the history configuration.
	Config ConfigSpec `yaml:"config,omitempty"`

	// State is an optional starting envelope, for example a persisted past
	// that the first init action should replay.
	State *StateSpec `yaml:"state,omitempty"`

	// Steps are dispatched in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final envelope.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID is an optional fixed run ID for deterministic output.
	RunID string `yaml:"run_id,omitempty"`
}

// ConfigSpec mirrors history.Config. An absent init list selects the default
// init type; an explicit empty list disables initialization.
type ConfigSpec struct {
	Init    []string `yaml:"init"`
	Include []string `yaml:"include,omitempty"`
}

// StateSpec is a starting envelope. Absent or null initial and present
// values are treated as not set.
type StateSpec struct {
	Initial any          `yaml:"initial,omitempty"`
	Past    []ActionSpec `yaml:"past,omitempty"`
	Present any          `yaml:"present,omitempty"`
	Future  []ActionSpec `yaml:"future,omitempty"`
}

// ActionSpec is an action as written in YAML.
type ActionSpec struct {
	Type    string         `yaml:"type"`
	Payload map[string]any `yaml:"payload,omitempty"`
}

// Step dispatches one action and optionally checks the envelope afterwards.
type Step struct {
	Dispatch ActionSpec `yaml:"dispatch"`
	Expect   *Expect    `yaml:"expect,omitempty"`
}

// Expect checks the envelope after a step. Unset fields are not checked.
type Expect struct {
	// Present is the expected present value.
	Present any `yaml:"present,omitempty"`

	// Past and Future are the expected queue lengths.
	Past   *int `yaml:"past,omitempty"`
	Future *int `yaml:"future,omitempty"`

	// Same asserts whether the step returned the previous envelope unchanged.
	Same *bool `yaml:"same,omitempty"`

	CanUndo *bool `yaml:"can_undo,omitempty"`
	CanRedo *bool `yaml:"can_redo,omitempty"`
}

// Assertion validates the trace or the final envelope.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Action is the action type (trace_contains, trace_count).
	Action string `yaml:"action,omitempty"`

	// Actions is the expected first-occurrence order (trace_order).
	Actions []string `yaml:"actions,omitempty"`

	// Payload is a subset of the expected payload (trace_contains).
	Payload map[string]any `yaml:"payload,omitempty"`

	// Replay restricts matching to replayed or live calls
	// (trace_contains, trace_count).
	Replay *bool `yaml:"replay,omitempty"`

	// Count is the expected number of calls (trace_count, replay_count).
	Count int `yaml:"count,omitempty"`

	// Value is the expected final present (final_present).
	Value any `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertReplayCount   = "replay_count"
	AssertFinalPresent  = "final_present"
)

// LoadScenario reads, parses and validates a scenario YAML file.
// Unknown fields are rejected, and the document is checked against the
// embedded CUE schema before the Go-level checks run.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(path, data)
}

// ParseScenario parses and validates scenario YAML. name is used in error
// positions only.
func ParseScenario(name string, data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateSchema(name, data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks what the schema cannot: values must convert to
// payload values and assertions must carry the fields their type needs.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Reducer == "" {
		return fmt.Errorf("reducer is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if s.State != nil {
		if _, err := s.State.toState(nil); err != nil {
			return fmt.Errorf("state: %w", err)
		}
	}
	for i, step := range s.Steps {
		if _, err := step.Dispatch.toAction(); err != nil {
			return fmt.Errorf("steps[%d].dispatch: %w", i, err)
		}
		if step.Expect != nil && step.Expect.Present != nil {
			if _, err := value.FromAny(step.Expect.Present); err != nil {
				return fmt.Errorf("steps[%d].expect.present: %w", i, err)
			}
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
		if _, err := value.ObjectFromAny(a.Payload); err != nil {
			return fmt.Errorf("assertions[%d].payload: %w", index, err)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertReplayCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for replay_count", index)
		}
	case AssertFinalPresent:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for final_present", index)
		}
		if _, err := value.FromAny(a.Value); err != nil {
			return fmt.Errorf("assertions[%d].value: %w", index, err)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// LoadActions reads a YAML list of actions, as written in scenario steps.
func LoadActions(path string) ([]history.Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read actions file: %w", err)
	}

	var specs []ActionSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&specs); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	actions, err := toActions(specs, "actions")
	if err != nil {
		return nil, err
	}
	if actions == nil {
		actions = []history.Action{}
	}
	return actions, nil
}

// toAction converts the YAML form into a history action.
func (a ActionSpec) toAction() (history.Action, error) {
	if a.Type == "" {
		return history.Action{}, fmt.Errorf("type is required")
	}
	payload, err := value.ObjectFromAny(a.Payload)
	if err != nil {
		return history.Action{}, fmt.Errorf("payload: %w", err)
	}
	return history.NewAction(history.Type(a.Type), payload), nil
}

func toActions(specs []ActionSpec, field string) ([]history.Action, error) {
	if specs == nil {
		return nil, nil
	}
	actions := make([]history.Action, len(specs))
	for i, as := range specs {
		a, err := as.toAction()
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		actions[i] = a
	}
	return actions, nil
}

// toState overlays the configured fields onto start. A nil start gives an
// envelope with nothing else set.
func (s *StateSpec) toState(start *history.State[value.Value]) (*history.State[value.Value], error) {
	var st history.State[value.Value]
	if start != nil {
		st = *start
	}

	if s.Initial != nil {
		v, err := value.FromAny(s.Initial)
		if err != nil {
			return nil, fmt.Errorf("initial: %w", err)
		}
		st.Initial, st.HasInitial = v, true
	}
	if s.Present != nil {
		v, err := value.FromAny(s.Present)
		if err != nil {
			return nil, fmt.Errorf("present: %w", err)
		}
		st.Present, st.HasPresent = v, true
	}

	past, err := toActions(s.Past, "past")
	if err != nil {
		return nil, err
	}
	future, err := toActions(s.Future, "future")
	if err != nil {
		return nil, err
	}
	st.Past, st.Future = past, future
	return &st, nil
}

// historyConfig converts the YAML config. A nil init list stays nil so the
// history default applies.
func (c ConfigSpec) historyConfig() history.Config[value.Value] {
	return history.Config[value.Value]{
		Init:    toTypes(c.Init),
		Include: toTypes(c.Include),
	}
}

func toTypes(names []string) []history.Type {
	if names == nil {
		return nil
	}
	types := make([]history.Type, len(names))
	for i, name := range names {
		types[i] = history.Type(name)
	}
	return types
}
