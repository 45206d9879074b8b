package history

import (
	"github.com/roach88/undoable/value"
)

// Type identifies an action.
type Type string

// Well-known action types.
const (
	// Undo steps back one tracked action.
	Undo Type = "@@undoable/UNDO"

	// Redo re-applies the most recently undone action.
	Redo Type = "@@undoable/REDO"

	// ReplayFinished is folded once after every replay. Hosts observe it in
	// their base reducer; they never dispatch it.
	ReplayFinished Type = "@@undoable/REPLAY_FINISHED"

	// HostInit is the store's own startup action, the default init trigger.
	HostInit Type = "@@store/INIT"
)

// reserved reports whether t is handled by the wrapper itself.
func reserved(t Type) bool {
	return t == Undo || t == Redo || t == ReplayFinished
}

// Meta carries dispatch metadata attached by the wrapper.
type Meta struct {
	// Replay is true when the action is a copy being replayed from history.
	Replay bool `json:"replay"`
}

// Action is one state transition request.
//
// Actions are values: the wrapper never writes to an Action it received.
// Payload maps are shared between copies and must not be mutated by reducers.
type Action struct {
	Type    Type         `json:"type"`
	Payload value.Object `json:"payload,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

// NewAction creates an action of type t with an optional payload.
func NewAction(t Type, payload value.Object) Action {
	return Action{Type: t, Payload: payload}
}

// IsReplay reports whether a is a replayed copy of a recorded action.
func (a Action) IsReplay() bool {
	return a.Meta != nil && a.Meta.Replay
}

// asReplay returns a copy of a marked as a replay. a itself is untouched.
func (a Action) asReplay() Action {
	a.Meta = &Meta{Replay: true}
	return a
}

// Fingerprint returns a content-addressed identity for the action's type and
// payload. Metadata is excluded so a replayed copy shares its original's
// fingerprint.
func (a Action) Fingerprint() (string, error) {
	obj := value.Object{"type": value.String(a.Type)}
	if len(a.Payload) > 0 {
		obj["payload"] = a.Payload
	}
	return value.Fingerprint(value.DomainAction, obj)
}
