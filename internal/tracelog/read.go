package tracelog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Entries returns every entry, ordered by seq.
// Returns an empty slice (not nil) when the log is empty.
func (l *Log) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT seq, step, action_type, replay, payload, fingerprint
		FROM reductions
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var replay int
		if err := rows.Scan(&e.Seq, &e.Step, &e.ActionType, &replay, &e.Payload, &e.Fingerprint); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Replay = replay == 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// CountByType returns how many times the base reducer saw actionType,
// live and replayed.
func (l *Log) CountByType(ctx context.Context, actionType string) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reductions WHERE action_type = ?`, actionType,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", actionType, err)
	}
	return n, nil
}

// ReplayCount returns how many replayed copies the base reducer saw.
// Replay-finished markers are not replayed copies and are not counted.
func (l *Log) ReplayCount(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reductions WHERE replay = 1`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count replays: %w", err)
	}
	return n, nil
}

// FirstSeq returns the seq of the earliest entry of actionType.
// ok is false when the type never reached the base reducer.
func (l *Log) FirstSeq(ctx context.Context, actionType string) (seq int64, ok bool, err error) {
	err = l.db.QueryRowContext(ctx, `
		SELECT seq FROM reductions
		WHERE action_type = ?
		ORDER BY seq ASC
		LIMIT 1
	`, actionType).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("first seq %s: %w", actionType, err)
	}
	return seq, true, nil
}
