package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitbook-dev/splitbook/internal/activitylog"
)

func writeGroupDir(t *testing.T, groupYAML, expensesCSV string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "group.yaml"), []byte(groupYAML), 0o644))
	if expensesCSV != "" {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "import"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "expenses.csv"), []byte(expensesCSV), 0o644))
	}
	return dir
}

const tripGroupYAML = `group:
  name: Goa Trip
  settlement: direct
participants:
  - name: Alice
  - name: Bob
  - name: Charlie
`

const tripExpensesCSV = `date,payer,amount,split_type,shares,description
2026-08-01,Alice,300,equal,,Hotel
2026-08-02,Bob,400,exact,Alice=100;Bob=200;Charlie=100,Dinner
`

func TestRun_PrintsPassbook(t *testing.T) {
	dir := writeGroupDir(t, tripGroupYAML, tripExpensesCSV)
	var out bytes.Buffer

	err := runRun(dir, "", nil, &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Passbook for Goa Trip (direct settlement)")
	assert.Contains(t, got, "Bob owes Alice 100.00")
	assert.Contains(t, got, "Charlie owes Alice 100.00")
	assert.Contains(t, got, "Alice owes Bob 100.00")
	assert.Contains(t, got, "Charlie owes Bob 100.00")
}

func TestRun_AppliesSettlements(t *testing.T) {
	dir := writeGroupDir(t, tripGroupYAML, tripExpensesCSV)
	var out bytes.Buffer

	err := runRun(dir, "", []string{"Bob:Alice:100", "Charlie:Alice:100"}, &out)
	require.NoError(t, err)

	got := out.String()
	assert.NotContains(t, got, "Bob owes Alice")
	assert.NotContains(t, got, "Charlie owes Alice")
	assert.Contains(t, got, "Alice owes Bob 100.00")
}

func TestRun_WritesActivityLog(t *testing.T) {
	dir := writeGroupDir(t, tripGroupYAML, tripExpensesCSV)
	var out bytes.Buffer

	err := runRun(dir, "", []string{"Bob:Alice:100"}, &out)
	require.NoError(t, err)

	entries, err := activitylog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3, "two expenses plus one settlement")
	assert.Equal(t, activitylog.ActionAddExpense, entries[0].Action)
	assert.NotEmpty(t, entries[0].RefID)
	assert.Equal(t, activitylog.ActionSettle, entries[2].Action)
	assert.Equal(t, "Goa Trip", entries[2].Group)
}

func TestRun_NoExpenses(t *testing.T) {
	dir := writeGroupDir(t, tripGroupYAML, "")
	var out bytes.Buffer

	err := runRun(dir, "", nil, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "All settled up.")
}

func TestRun_SettlementExceedsBalanceFails(t *testing.T) {
	dir := writeGroupDir(t, tripGroupYAML, tripExpensesCSV)
	var out bytes.Buffer

	err := runRun(dir, "", []string{"Bob:Alice:500"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds the outstanding balance")
}

func TestRun_UnknownPayerInCSV(t *testing.T) {
	csv := "date,payer,amount,split_type,shares,description\n2026-08-01,Mallory,300,equal,,Hotel\n"
	dir := writeGroupDir(t, tripGroupYAML, csv)
	var out bytes.Buffer

	err := runRun(dir, "", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown payer "Mallory"`)
}

func TestRun_InvalidSettlementSpec(t *testing.T) {
	dir := writeGroupDir(t, tripGroupYAML, "")
	var out bytes.Buffer

	err := runRun(dir, "", []string{"Bob-Alice-100"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want payer:payee:amount")
}

func TestRun_DuplicateParticipantNames(t *testing.T) {
	groupYAML := `group:
  name: Dupes
participants:
  - name: Alice
  - name: Alice
`
	dir := writeGroupDir(t, groupYAML, "")
	var out bytes.Buffer

	err := runRun(dir, "", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate participant name "Alice"`)
}

func TestRun_MissingConfig(t *testing.T) {
	var out bytes.Buffer
	err := runRun(t.TempDir(), "", nil, &out)
	require.Error(t, err)
}
