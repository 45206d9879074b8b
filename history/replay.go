package history

// Reducer is a pure state transition. It must be total: it sees every action
// type the host dispatches, replayed copies, and ReplayFinished.
type Reducer[S any] func(state S, action Action) S

// Replay folds base over initial and actions, oldest first.
//
// Each action is copied and marked as a replay before it is applied; the
// originals are never modified. A single ReplayFinished action without
// metadata is folded last. The whole sequence is applied eagerly on every
// call, so the cost is linear in len(actions).
func Replay[S any](initial S, actions []Action, base Reducer[S]) S {
	state := initial
	for _, a := range actions {
		state = base(state, a.asReplay())
	}
	return base(state, Action{Type: ReplayFinished})
}
