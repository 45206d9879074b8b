package testutil

// FixedRunID returns the same run ID every time, so golden output that
// includes it stays byte-identical across runs.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a generator for id. An empty id becomes "test-run-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunID) Generate() string {
	return g.id
}
