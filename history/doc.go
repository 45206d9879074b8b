// Package history adds undo/redo to a pure reducer by recording actions
// rather than snapshots.
//
// A History wraps a base Reducer and reduces a State envelope:
//
//	initial  replay baseline, fixed on the first init action
//	past     applied tracked actions, oldest first
//	present  current base state
//	future   undone actions, nearest first
//
// # Dispatch
//
// Reduce handles, in order:
//
//  1. An init action (Config.Init) while the present is unset: the baseline is
//     fixed if absent and the past is replayed onto it.
//  2. Undo: the newest past action moves to the front of the future and the
//     present is rebuilt by replaying the remaining past from the baseline.
//  3. Redo: the nearest future action is applied to the present and appended
//     to the past.
//  4. Anything else goes to the base reducer. An unchanged result returns the
//     same *State. A changed result replaces the present; if the type is in
//     Config.Include the action is also appended to the past and the future
//     is discarded.
//
// Undo with an empty past and Redo with an empty future return the received
// envelope unchanged.
//
// # Replay
//
// Replay folds the base reducer over copies of the recorded actions, each
// marked with Meta.Replay, then folds one ReplayFinished action. Reducers can
// use the marker to skip side effects during reconstruction:
//
//	func reduce(s int, a history.Action) int {
//		if a.IsReplay() {
//			// rebuilding history
//		}
//		...
//	}
//
// Because undo replays the whole remaining past, its cost is linear in the
// length of the past.
//
// # Usage
//
//	h, err := history.New(counter, history.Config[int]{
//		Include: []history.Type{"INCREMENT"},
//	})
//	if err != nil {
//		return err
//	}
//	st := h.Reduce(nil, history.Action{Type: history.HostInit})
//	st = h.Reduce(st, history.Action{Type: "INCREMENT"})
//	st = h.Reduce(st, history.Action{Type: history.Undo})
package history
