package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/llql/internal/store"
)

func recordedRuns(t *testing.T, db string) []store.Record {
	t.Helper()
	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	records, err := st.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	return records
}

func TestHistory_RecordsRuns(t *testing.T) {
	file := calcFile(t)
	db := filepath.Join(t.TempDir(), "state", "history.db")

	_, _, err := execute(t, "", "query", "--history", "--db", db, "-o", "csv", "-f", file, addQuery)
	require.NoError(t, err)
	_, _, err = execute(t, "", "query", "--history", "--db", db, "-o", "csv", "-f", file,
		"SELECT function_name FROM instructions LIMIT 1; SELECT nope FROM instructions")
	require.Error(t, err)

	records := recordedRuns(t, db)
	require.Len(t, records, 3)

	// Numbering continues across invocations.
	assert.Equal(t, []int64{1, 2, 3}, []int64{records[0].Seq, records[1].Seq, records[2].Seq})
	assert.Equal(t, store.StatusOK, records[0].Status)
	assert.Equal(t, 2, records[0].RowCount)
	assert.Equal(t, []string{file}, records[0].Files)
	assert.Equal(t, store.StatusOK, records[1].Status)
	assert.Equal(t, store.StatusError, records[2].Status)
	assert.Contains(t, records[2].Error, "E201")
}

func TestHistory_DisabledByDefault(t *testing.T) {
	file := calcFile(t)
	db := filepath.Join(t.TempDir(), "history.db")

	_, _, err := execute(t, "", "query", "--db", db, "-o", "csv", "-f", file, addQuery)
	require.NoError(t, err)
	assert.NoFileExists(t, db)
}

func TestHistoryCommand_List(t *testing.T) {
	file := calcFile(t)
	db := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 3; i++ {
		_, _, err := execute(t, "", "query", "--history", "--db", db, "-f", file, "SELECT function_name FROM instructions")
		require.NoError(t, err)
	}
	records := recordedRuns(t, db)
	require.Len(t, records, 3)

	out, _, err := execute(t, "", "history", "--db", db, "-o", "csv", "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, "id,seq,status,rows,query\n"+
		records[1].ID+",2,ok,5,SELECT function_name FROM instructions\n"+
		records[2].ID+",3,ok,5,SELECT function_name FROM instructions\n", out)
}

func TestHistoryCommand_NoDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "none.db")

	out, _, err := execute(t, "", "history", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No history recorded.\n", out)
	assert.NoFileExists(t, db)

	_, _, err = execute(t, "", "history", "show", "x", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistoryCommand_Show(t *testing.T) {
	file := calcFile(t)
	db := filepath.Join(t.TempDir(), "history.db")

	_, _, err := execute(t, "", "query", "--history", "--db", db, "-f", file, addQuery)
	require.NoError(t, err)
	_, _, err = execute(t, "", "query", "--history", "--db", db, "-f", file, "SELECT nope FROM instructions")
	require.Error(t, err)

	records := recordedRuns(t, db)
	require.Len(t, records, 2)

	t.Run("successful run", func(t *testing.T) {
		out, _, err := execute(t, "", "history", "show", records[0].ID, "--db", db, "-o", "csv")
		require.NoError(t, err)
		assert.Contains(t, out, "Run:   "+records[0].ID+" (seq 1)\n")
		assert.Contains(t, out, "Files: "+file+"\n")
		assert.Contains(t, out, "Query: "+addQuery+"\n")
		assert.Contains(t, out, "function_name,instruction\n"+
			"calc,\"%a = add i32 %x, 1\"\n"+
			"calc,\"%b = add i32 2, %a\"\n")
	})

	t.Run("failed run", func(t *testing.T) {
		out, _, err := execute(t, "", "history", "show", records[1].ID, "--db", db)
		require.NoError(t, err)
		assert.Contains(t, out, `Error: 1:8: E201: unknown column "nope" in table instructions`)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, _, err := execute(t, "", "history", "show", "no-such-run", "--db", db)
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, err.Error(), "run not found: no-such-run")
	})
}

func TestHistoryTable(t *testing.T) {
	result := historyTable([]store.Record{
		{ID: "a", Seq: 1, Status: store.StatusOK, RowCount: 4, Query: "SELECT x FROM t"},
		{ID: "b", Seq: 2, Status: store.StatusError, Query: "SELECT y FROM t"},
	})

	assert.Equal(t, []string{"id", "seq", "status", "rows", "query"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "error", result.Rows[1][2].Literal())
	assert.Equal(t, "4", result.Rows[0][3].Literal())
}
