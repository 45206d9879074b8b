package tracelog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/undoable/history"
	"github.com/roach88/undoable/value"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func mustEntry(t *testing.T, seq, step int64, a history.Action) Entry {
	t.Helper()
	e, err := NewEntry(seq, step, a)
	require.NoError(t, err)
	return e
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Append(context.Background(), mustEntry(t, 1, 1, history.NewAction("INCREMENT", nil))))
	require.NoError(t, l.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	// Reopening keeps the rows and re-applies the schema without error.
	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()

	entries, err := l.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewEntry(t *testing.T) {
	a := history.NewAction("PUSH", value.Object{"item": value.String("x")})

	e := mustEntry(t, 3, 2, a)
	assert.Equal(t, int64(3), e.Seq)
	assert.Equal(t, int64(2), e.Step)
	assert.Equal(t, "PUSH", e.ActionType)
	assert.False(t, e.Replay)
	assert.Equal(t, `{"item":"x"}`, e.Payload)

	fp, err := a.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp, e.Fingerprint)
}

func TestNewEntry_NullPayloadValue(t *testing.T) {
	a := history.NewAction("PUSH", value.Object{"item": value.Null{}})

	e := mustEntry(t, 1, 1, a)
	assert.Equal(t, `{"item":null}`, e.Payload)
	assert.Len(t, e.Fingerprint, 64)
}

func TestNewEntry_NoPayload(t *testing.T) {
	e := mustEntry(t, 1, 0, history.Action{Type: history.ReplayFinished})
	assert.Equal(t, "{}", e.Payload)
	assert.Equal(t, string(history.ReplayFinished), e.ActionType)
}

func TestNewEntry_ReplayFlag(t *testing.T) {
	a := history.Action{Type: "INCREMENT", Meta: &history.Meta{Replay: true}}
	e := mustEntry(t, 1, 0, a)
	assert.True(t, e.Replay)
}

func TestEntries_OrderedBySeq(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	// Inserted out of order on purpose.
	for _, seq := range []int64{3, 1, 2} {
		require.NoError(t, l.Append(ctx, mustEntry(t, seq, 1, history.NewAction("INCREMENT", nil))))
	}

	entries, err := l.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Seq)
	}
}

func TestEntries_EmptyIsNotNil(t *testing.T) {
	entries, err := openTestLog(t).Entries(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAppend_DuplicateSeq(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	require.NoError(t, l.Append(ctx, mustEntry(t, 1, 1, history.NewAction("INCREMENT", nil))))
	err := l.Append(ctx, mustEntry(t, 1, 1, history.NewAction("DECREMENT", nil)))
	assert.Error(t, err)
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	l := openTestLog(t)

	replayed := history.Action{Type: "INCREMENT", Meta: &history.Meta{Replay: true}}
	actions := []history.Action{
		history.NewAction("INCREMENT", nil),
		replayed,
		replayed,
		{Type: history.ReplayFinished},
		history.NewAction("DECREMENT", nil),
	}
	for i, a := range actions {
		require.NoError(t, l.Append(ctx, mustEntry(t, int64(i+1), 1, a)))
	}

	n, err := l.CountByType(ctx, "INCREMENT")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = l.CountByType(ctx, "RESET")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = l.ReplayCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	seq, ok, err := l.FirstSeq(ctx, string(history.ReplayFinished))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(4), seq)

	_, ok, err = l.FirstSeq(ctx, "RESET")
	require.NoError(t, err)
	assert.False(t, ok)
}
