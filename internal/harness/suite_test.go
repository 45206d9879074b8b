package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0755))
	for _, name := range []string{
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "notes.txt"),
		filepath.Join(nested, "c.yaml"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("name: x\n"), 0644))
	}

	files, err := FindScenarios([]string{dir, filepath.Join(dir, "b.yaml")}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(nested, "c.yaml"),
	}, files)

	files, err = FindScenarios([]string{dir}, "*.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.yaml"),
		filepath.Join(nested, "c.yaml"),
	}, files)
}

func TestFindScenarios_Errors(t *testing.T) {
	_, err := FindScenarios([]string{"/nonexistent/scenarios"}, "")
	var notFound *ScenarioNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/nonexistent/scenarios", notFound.Path)

	_, err = FindScenarios([]string{t.TempDir()}, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter")
}

func TestRunSuite(t *testing.T) {
	dir := t.TempDir()
	failing := filepath.Join(dir, "failing.yaml")
	require.NoError(t, os.WriteFile(failing, []byte(`
name: failing
description: "expects the wrong present"
reducer: counter
steps:
  - dispatch: {type: "@@store/INIT"}
    expect: {present: 7}
`), 0644))
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("name: [\n"), 0644))

	files, err := FindScenarios([]string{"testdata/scenarios", dir}, "")
	require.NoError(t, err)

	result := RunSuite(files)
	assert.Equal(t, len(files), result.Total)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, result.Total-2, result.Passed)

	require.Len(t, result.Failures, 2)
	assert.Equal(t, broken, result.Failures[0].Path)
	assert.Contains(t, result.Failures[0].Errors[0], "failed to load scenario")
	assert.Equal(t, "failing", result.Failures[1].Scenario)
	assert.Contains(t, result.Failures[1].Errors[0], "present = 0, want 7")
}
