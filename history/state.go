package history

import (
	"encoding/json"
)

// State is the history envelope around a base reducer's state.
//
// Reduce treats a State as immutable: it never writes to the one it receives
// and returns either that same pointer (nothing changed) or a fresh State.
type State[S any] struct {
	// Initial is the replay baseline. Valid only when HasInitial is set.
	Initial    S
	HasInitial bool

	// Past holds applied tracked actions, oldest first.
	Past []Action

	// Present is the current base state. HasPresent is false until the first
	// init action has been reduced.
	Present    S
	HasPresent bool

	// Future holds undone actions, nearest first.
	Future []Action
}

// CanUndo reports whether an Undo would change the envelope.
func (s *State[S]) CanUndo() bool {
	return s != nil && len(s.Past) > 0
}

// CanRedo reports whether a Redo would change the envelope.
func (s *State[S]) CanRedo() bool {
	return s != nil && len(s.Future) > 0
}

// withPresent returns a shallow copy of s with a new present value.
func (s *State[S]) withPresent(present S) *State[S] {
	next := *s
	next.Present = present
	next.HasPresent = true
	return &next
}

type stateJSON struct {
	Initial any      `json:"initial"`
	Past    []Action `json:"past"`
	Present any      `json:"present"`
	Future  []Action `json:"future"`
}

// MarshalJSON encodes the envelope as {"initial","past","present","future"}.
// Absent initial or present values encode as null.
func (s *State[S]) MarshalJSON() ([]byte, error) {
	out := stateJSON{Past: s.Past, Future: s.Future}
	if s.HasInitial {
		out.Initial = s.Initial
	}
	if s.HasPresent {
		out.Present = s.Present
	}
	if out.Past == nil {
		out.Past = []Action{}
	}
	if out.Future == nil {
		out.Future = []Action{}
	}
	return json.Marshal(out)
}
