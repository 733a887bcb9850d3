package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addQuery = "SELECT function_name, instruction FROM instructions WHERE m_inst(instruction, m_add())"

func TestQueryCommand_CSV(t *testing.T) {
	file := calcFile(t)

	out, errOut, err := execute(t, "", "query", "-o", "csv", "-f", file, addQuery)
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Equal(t, "function_name,instruction\n"+
		"calc,\"%a = add i32 %x, 1\"\n"+
		"calc,\"%b = add i32 2, %a\"\n", out)
}

func TestQueryCommand_JSON(t *testing.T) {
	file := calcFile(t)

	out, _, err := execute(t, "", "query", "-o", "json", "-f", file,
		"SELECT DISTINCT function_name FROM instructions ORDER BY function_name")
	require.NoError(t, err)
	assert.Equal(t, `[{"function_name":"calc"},{"function_name":"noop"}]`+"\n", out)
}

func TestQueryCommand_Render(t *testing.T) {
	file := calcFile(t)

	out, _, err := execute(t, "", "query", "-f", file,
		"SELECT function_name FROM instructions WHERE function_name = 'noop'")
	require.NoError(t, err)
	assert.Contains(t, out, "function_name")
	assert.Contains(t, out, "│ noop")
}

func TestQueryCommand_FileNameColumn(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ll", calcIR)
	b := writeFile(t, dir, "b.ll", "define void @other() {\nentry:\n  ret void\n}\n")

	out, _, err := execute(t, "", "query", "-o", "csv", "-f", a, "-f", b,
		"SELECT DISTINCT file_name FROM instructions ORDER BY file_name")
	require.NoError(t, err)
	assert.Equal(t, "file_name\n"+a+"\n"+b+"\n", out)
}

func TestQueryCommand_Analysis(t *testing.T) {
	file := calcFile(t)

	out, _, err := execute(t, "", "query", "--analysis", "-o", "csv", "-f", file, addQuery)
	require.NoError(t, err)
	assert.Contains(t, out, "2 row in set (total: ")
	assert.Contains(t, out, "front: ")
	assert.Contains(t, out, "engine: ")
}

func TestQueryCommand_CompileErrorDiagnostic(t *testing.T) {
	file := calcFile(t)

	out, errOut, err := execute(t, "", "query", "-f", file, "SELECT nope FROM instructions")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))
	assert.Empty(t, out)

	assert.Contains(t, errOut, `error: 1:8: E201: unknown column "nope" in table instructions`)
	assert.Contains(t, errOut, "1 | SELECT nope FROM instructions\n")
	assert.Contains(t, errOut, "  | "+strings.Repeat(" ", 7)+"^\n")
}

func TestQueryCommand_SyntaxError(t *testing.T) {
	file := calcFile(t)

	_, errOut, err := execute(t, "", "query", "-f", file, "SELECT FROM instructions")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, errOut, "error: 1:")
	assert.Contains(t, errOut, "^")
}

func TestQueryCommand_StopsAtFirstFailure(t *testing.T) {
	file := calcFile(t)

	out, errOut, err := execute(t, "", "query", "-o", "csv", "-f", file,
		"SELECT function_name FROM instructions LIMIT 1; SELECT nope FROM instructions; SELECT function_name FROM instructions")
	require.Error(t, err)
	assert.Equal(t, "function_name\ncalc\n", out)
	assert.Contains(t, errOut, "E201")
}

func TestQueryCommand_InputValidation(t *testing.T) {
	dir := t.TempDir()
	bitcode := writeFile(t, dir, "m.bc", "BC")
	text := writeFile(t, dir, "m.txt", calcIR)
	broken := writeFile(t, dir, "broken.ll", "define void @f() {\n  frobnicate i32 1\n}\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no files", nil, "no input files"},
		{"missing file", []string{"-f", filepath.Join(dir, "missing.ll")}, "does not exist"},
		{"bitcode", []string{"-f", bitcode}, "bitcode modules are not supported"},
		{"wrong extension", []string{"-f", text}, "must end with the .ll extension"},
		{"directory", []string{"-f", dir + string(filepath.Separator) + "."}, "is a directory"},
		{"parse error", []string{"-f", broken}, "broken.ll:2:"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"query"}, tt.args...)
			args = append(args, "SELECT function_name FROM instructions")

			_, errOut, err := execute(t, "", args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.True(t, IsReported(err))
			assert.Contains(t, errOut, "error: ")
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestQueryCommand_MissingArgs(t *testing.T) {
	_, _, err := execute(t, "", "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestScriptCommand(t *testing.T) {
	file := calcFile(t)
	script := writeFile(t, t.TempDir(), "queries.sql", `-- opcode counts
SELECT inst_opcode(instruction) AS op, count(*) AS n
FROM instructions
GROUP BY inst_opcode(instruction)
ORDER BY n DESC, op;

SELECT function_name FROM instructions WHERE m_inst(instruction, m_mul());
`)

	out, _, err := execute(t, "", "script", "-o", "csv", "-f", file, script)
	require.NoError(t, err)
	assert.Equal(t, "op,n\nadd,2\nret,2\nmul,1\nfunction_name\ncalc\n", out)
}

func TestScriptCommand_ErrorPointsIntoScript(t *testing.T) {
	file := calcFile(t)
	script := writeFile(t, t.TempDir(), "bad.sql", "SELECT function_name FROM instructions;\nSELECT nope FROM instructions;\n")

	_, errOut, err := execute(t, "", "script", "-o", "csv", "-f", file, script)
	require.Error(t, err)
	assert.Contains(t, errOut, "error: 2:8: E201")
	assert.Contains(t, errOut, "2 | SELECT nope FROM instructions;\n")
}

func TestScriptCommand_MissingScript(t *testing.T) {
	file := calcFile(t)

	_, _, err := execute(t, "", "script", "-f", file, filepath.Join(t.TempDir(), "none.sql"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.False(t, IsReported(err))
	assert.Contains(t, err.Error(), "failed to read script")
}
