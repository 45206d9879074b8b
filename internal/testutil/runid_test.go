package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedRunID(t *testing.T) {
	g := NewFixedRunID("run-1")
	assert.Equal(t, "run-1", g.Generate())
	assert.Equal(t, "run-1", g.Generate())

	assert.Equal(t, "test-run-default", NewFixedRunID("").Generate())
}
