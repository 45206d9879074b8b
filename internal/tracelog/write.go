package tracelog

import (
	"context"
	"fmt"

	"github.com/roach88/undoable/history"
	"github.com/roach88/undoable/value"
)

// Entry is one base-reducer call.
type Entry struct {
	Seq         int64  `json:"seq"`
	Step        int64  `json:"step"`
	ActionType  string `json:"type"`
	Replay      bool   `json:"replay"`
	Payload     string `json:"payload"`
	Fingerprint string `json:"fingerprint"`
}

// NewEntry describes action as seen by the base reducer at seq, during
// dispatch step. The payload is stored as canonical JSON; a missing payload
// is stored as {}.
func NewEntry(seq, step int64, action history.Action) (Entry, error) {
	payload := action.Payload
	if payload == nil {
		payload = value.Object{}
	}
	canonical, err := value.MarshalCanonical(payload)
	if err != nil {
		return Entry{}, fmt.Errorf("entry %d payload: %w", seq, err)
	}
	fp, err := action.Fingerprint()
	if err != nil {
		return Entry{}, fmt.Errorf("entry %d: %w", seq, err)
	}
	return Entry{
		Seq:         seq,
		Step:        step,
		ActionType:  string(action.Type),
		Replay:      action.IsReplay(),
		Payload:     string(canonical),
		Fingerprint: fp,
	}, nil
}

// Append inserts e. Sequence numbers are unique; a duplicate seq is an error.
func (l *Log) Append(ctx context.Context, e Entry) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO reductions
		(seq, step, action_type, replay, payload, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.Seq,
		e.Step,
		e.ActionType,
		boolToInt(e.Replay),
		e.Payload,
		e.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("append entry %d: %w", e.Seq, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
