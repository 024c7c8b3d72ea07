package activitylog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(action, details string) Entry {
	return Entry{
		Timestamp: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		Group:     "Goa Trip",
		Action:    action,
		Details:   details,
	}
}

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()

	err := Append(dir, []Entry{
		entry(ActionAddExpense, "Alice paid 300 (equal)"),
		entry(ActionSettle, "Bob paid 100 to Alice"),
	})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ActionAddExpense, entries[0].Action)
	assert.Equal(t, "Alice paid 300 (equal)", entries[0].Details)
	assert.Equal(t, "Goa Trip", entries[0].Group)
	assert.Equal(t, ActionSettle, entries[1].Action)
}

func TestAppend_Accumulates(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, []Entry{entry(ActionAddExpense, "first")}))
	require.NoError(t, Append(dir, []Entry{entry(ActionAddExpense, "second")}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Details)
	assert.Equal(t, "second", entries[1].Details)
}

func TestAppend_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Append(dir, []Entry{entry(ActionAddExpense, "first")}))
	require.NoError(t, Append(dir, []Entry{entry(ActionAddExpense, "second")}))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "activity-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))
}

func TestRead_Missing(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMarshalRoundTrip(t *testing.T) {
	e := Entry{
		Timestamp: time.Date(2026, 8, 26, 9, 30, 0, 0, time.UTC),
		Group:     "Goa Trip",
		Action:    ActionAddExpense,
		Details:   "Bob paid 400 (exact)",
		RefID:     "exp_deadbeef",
	}

	got, err := UnmarshalEntry(MarshalEntry(e))
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"not-a-time", "g", "a", "d", "r"})
	assert.Error(t, err)

	_, err = UnmarshalEntry([]string{"too", "few"})
	assert.Error(t, err)
}
