package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/undoable/history"
	"github.com/roach88/undoable/value"
)

func TestRunWithGolden_Fixtures(t *testing.T) {
	for _, name := range []string{"counter_undo_redo", "list_init_replay"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestCanonicalTrace_Shape(t *testing.T) {
	scenario := counterScenario(dispatch("INIT", nil), dispatch("INCREMENT", map[string]any{"by": 2}))

	result, err := Run(scenario)
	require.NoError(t, err)

	data, err := CanonicalTrace("shape", result)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, `{"final":{"future":[],"past":[{"payload":{"by":2},"type":"INCREMENT"}],"present":2}`))
	assert.Contains(t, out, `"run_id":"test-run-fixed","scenario":"shape","trace":[`)
	assert.Contains(t, out, `"payload":{"by":2},"replay":false,"seq":3,"step":2,"type":"INCREMENT"}`)
	assert.NotContains(t, out, "\n")
}

func TestCanonicalTrace_OmitsAbsentPresent(t *testing.T) {
	result := NewResult("r")
	result.Final = &history.State[value.Value]{Present: value.Int(0)}

	data, err := CanonicalTrace("absent", result)
	require.NoError(t, err)
	assert.Equal(t, `{"final":{"future":[],"past":[]},"run_id":"r","scenario":"absent","trace":[]}`, string(data))
}
