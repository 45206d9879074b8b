package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommand_Valid(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", passingScenario)
	b := writeFile(t, dir, "b.yaml", failingScenario)

	out, _, err := execute(t, "validate", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ 2 file(s) valid")
}

func TestValidateCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", passingScenario)
	bad := writeFile(t, dir, "bad.yaml", `
name: bad
description: "unknown assertion"
reducer: counter
steps:
  - dispatch: {type: INCREMENT}
assertions:
  - type: final_state
`)

	out, _, err := execute(t, "validate", good, bad, "/nonexistent.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ "+bad)
	assert.Contains(t, out, "✗ /nonexistent.yaml\n  E002: file not found")
	assert.Contains(t, out, "2 of 3 file(s) invalid")
}

func TestValidateCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.yaml", "name: [\n")

	out, _, err := execute(t, "--format", "json", "validate", bad)
	require.Error(t, err)

	var resp struct {
		Data ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.Files)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, ErrCodeInvalid, resp.Data.Errors[0].Code)
	assert.Equal(t, bad, resp.Data.Errors[0].Path)
}

func TestValidateCommand_RequiresArgs(t *testing.T) {
	_, _, err := execute(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
