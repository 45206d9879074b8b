package history

import (
	"errors"
	"slices"
)

// ErrNilReducer is returned by New when no base reducer is given.
var ErrNilReducer = errors.New("base reducer is required")

// History wraps a base reducer with undo/redo tracking.
// It holds no mutable state and is safe to share; callers serialize
// dispatches the way any single-writer store does.
type History[S any] struct {
	base Reducer[S]
	cfg  settings[S]
}

// New wraps base with history tracking.
// The configuration is merged with its defaults once, here.
func New[S any](base Reducer[S], cfg Config[S]) (*History[S], error) {
	s, err := merge(cfg)
	if base == nil {
		err = errors.Join(ErrNilReducer, err)
	}
	if err != nil {
		return nil, err
	}
	return &History[S]{base: base, cfg: s}, nil
}

// Initial returns a fresh envelope: no baseline, empty queues, and the base
// reducer's own default state as a not-yet-initialized present.
func (h *History[S]) Initial() *State[S] {
	var zero S
	return &State[S]{
		Present: h.base(zero, Action{}),
	}
}

// Reduce applies action to the envelope. A nil state is replaced by Initial().
//
// Order of precedence: initialization, Undo, Redo, then the base reducer.
// Undo and Redo on an empty queue return state unchanged.
func (h *History[S]) Reduce(state *State[S], action Action) *State[S] {
	if state == nil {
		state = h.Initial()
	}
	log := h.cfg.logger

	_, isInit := h.cfg.init[action.Type]
	switch {
	case isInit && !state.HasPresent:
		return h.initialize(state)

	case action.Type == Undo:
		if len(state.Past) == 0 {
			log.Debug("undo skipped: past is empty")
			return state
		}
		return h.undo(state)

	case action.Type == Redo:
		if len(state.Future) == 0 {
			log.Debug("redo skipped: future is empty")
			return state
		}
		return h.redo(state)

	default:
		if !state.HasPresent {
			log.Warn("action reduced before initialization", "type", action.Type)
		}

		present := h.base(state.Present, action)
		if h.cfg.equal(state.Present, present) {
			return state
		}

		next := state.withPresent(present)
		if !state.HasPresent && !state.HasInitial {
			// The init branch can no longer fire once present is set, so the
			// provisional present becomes the baseline here.
			next.Initial = state.Present
			next.HasInitial = true
		}

		if _, tracked := h.cfg.include[action.Type]; !tracked {
			return next
		}

		next.Past = append(slices.Clip(state.Past), action)
		next.Future = nil
		log.Debug("action recorded", "type", action.Type, "past", len(next.Past))
		return next
	}
}

// initialize fixes the baseline if it is still absent and replays the past
// onto it.
func (h *History[S]) initialize(state *State[S]) *State[S] {
	next := *state
	if !next.HasInitial {
		next.Initial = state.Present
		next.HasInitial = true
	}
	next.Present = Replay(next.Initial, next.Past, h.base)
	next.HasPresent = true

	h.cfg.logger.Debug("history initialized", "past", len(next.Past))
	return &next
}

// undo moves the newest past action to the front of the future and rebuilds
// the present by replaying what remains.
func (h *History[S]) undo(state *State[S]) *State[S] {
	last := len(state.Past) - 1
	action := state.Past[last]
	past := slices.Clip(state.Past[:last])

	next := state.withPresent(Replay(state.Initial, past, h.base))
	next.Past = past
	next.Future = append([]Action{action}, state.Future...)

	h.cfg.logger.Debug("undo", "type", action.Type, "past", len(past), "future", len(next.Future))
	return next
}

// redo moves the nearest future action onto the past and applies it to the
// present directly.
func (h *History[S]) redo(state *State[S]) *State[S] {
	action := state.Future[0]

	next := state.withPresent(h.base(state.Present, action))
	next.Past = append(slices.Clip(state.Past), action)
	next.Future = slices.Clip(state.Future[1:])

	h.cfg.logger.Debug("redo", "type", action.Type, "past", len(next.Past), "future", len(next.Future))
	return next
}
