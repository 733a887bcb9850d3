package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplCommand(t *testing.T) {
	file := calcFile(t)
	input := "SELECT function_name FROM instructions LIMIT 1\n" +
		"\n" +
		"SELECT nope FROM instructions\n" +
		"SELECT DISTINCT function_name FROM instructions ORDER BY function_name DESC\n" +
		"exit\n" +
		"SELECT instruction FROM instructions\n"

	out, errOut, err := execute(t, input, "repl", "-o", "csv", "-f", file)
	require.NoError(t, err)

	assert.Equal(t, "function_name\ncalc\nfunction_name\nnoop\ncalc\nGoodbye!\n", out)
	assert.NotContains(t, out, replPrompt, "prompt is only shown on a terminal")
	assert.Contains(t, errOut, "E201")
}

func TestReplCommand_EndOfInput(t *testing.T) {
	file := calcFile(t)

	out, _, err := execute(t, "SELECT function_name FROM instructions LIMIT 1", "repl", "-o", "csv", "-f", file)
	require.NoError(t, err)
	assert.Equal(t, "function_name\ncalc\n", out)
}

func TestReplCommand_PaginationKeepsLaterQueries(t *testing.T) {
	file := calcFile(t)
	input := "SELECT function_name FROM instructions\n" +
		"q\n" +
		"SELECT count(*) AS n FROM instructions\n" +
		"exit\n"

	out, _, err := execute(t, input, "repl", "--pagination", "--page-size", "2", "-f", file)
	require.NoError(t, err)

	assert.Contains(t, out, "Page 1/3")
	assert.NotContains(t, out, "Page 2/3")
	assert.Contains(t, out, "│ 5 │")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"), out)
}

func TestReplCommand_InvalidFiles(t *testing.T) {
	_, errOut, err := execute(t, "exit\n", "repl")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errOut, "no input files")
}

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(f))
	assert.False(t, isTerminal(nil))
}
