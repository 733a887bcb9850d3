package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: add_rows
description: "two adds in calc"
modules:
  - name: calc.ll
    source: |
      define i32 @calc(i32 %x) {
      entry:
        %a = add i32 %x, 1
        %b = add i32 2, %a
        ret i32 %b
      }
steps:
  - query: "SELECT function_name FROM instructions WHERE m_inst(instruction, m_add())"
assertions:
  - type: row_count
    step: 0
    count: 2
`

const failingScenario = `name: wrong_count
description: "expects the wrong number of rows"
modules:
  - name: calc.ll
    source: |
      define void @f() {
      entry:
        ret void
      }
steps:
  - query: "SELECT instruction FROM instructions"
assertions:
  - type: row_count
    step: 0
    count: 3
`

func TestTestCommand_MissingArgs(t *testing.T) {
	_, _, err := execute(t, "", "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestTestCommand_NonExistentPath(t *testing.T) {
	_, _, err := execute(t, "", "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenario path not found")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommand_EmptyDirJSON(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, "", "test", "-o", "json", dir)
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommand_HarnessScenarios(t *testing.T) {
	out, _, err := execute(t, "", "test", filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ opcode_histogram")
	assert.Contains(t, out, "✓ sample_returns")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
}

func TestTestCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "add_rows.yaml", passingScenario)
	writeFile(t, dir, "wrong_count.yaml", failingScenario)

	out, _, err := execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, IsReported(err))

	assert.Contains(t, out, "✓ add_rows")
	assert.Contains(t, out, "✗ wrong_count")
	assert.Contains(t, out, "  Assertion failed: row_count (step 0)")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_FailureJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "add_rows.yaml", passingScenario)
	writeFile(t, dir, "wrong_count.yaml", failingScenario)

	out, _, err := execute(t, "", "test", "-o", "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, "E_TEST_FAILED", response.Error.Code)
	assert.Equal(t, 2, response.Data.Total)
	assert.Equal(t, 1, response.Data.Passed)
	assert.Equal(t, 1, response.Data.Failed)
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "broken.yaml", "name: broken\nunknown_field: 1\n")

	out, _, err := execute(t, "", "test", file)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "add_rows.yaml", passingScenario)
	writeFile(t, dir, "wrong_count.yaml", failingScenario)

	out, _, err := execute(t, "", "test", "--filter", "add_*", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_Golden(t *testing.T) {
	dir := t.TempDir()
	scenario := writeFile(t, dir, "add_rows.yaml", passingScenario)
	golden := filepath.Join(dir, "golden", "add_rows.golden")

	_, _, err := execute(t, "", "test", "--update", scenario)
	require.NoError(t, err)
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Equal(t, "-- step 0 run-0001 seq 1\n"+
		"SELECT function_name FROM instructions WHERE m_inst(instruction, m_add())\n"+
		"function_name\ncalc\ncalc\n", string(data))

	// The golden directory is not searched for scenarios.
	out, _, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")

	require.NoError(t, os.WriteFile(golden, []byte(strings.Replace(string(data), "calc\ncalc", "calc", 1)), 0644))
	out, _, err = execute(t, "", "test", scenario)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestFindScenarioFiles(t *testing.T) {
	tmpDir := t.TempDir()

	// Create scenario files
	writeFile(t, tmpDir, "test1.yaml", "")
	writeFile(t, tmpDir, "test2.yml", "")
	writeFile(t, tmpDir, "ignore.txt", "")
	writeFile(t, tmpDir, "sub/nested.yaml", "")
	writeFile(t, tmpDir, "golden/skipped.yaml", "")

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	tmpDir := t.TempDir()

	writeFile(t, tmpDir, "cart-test.yaml", "")
	writeFile(t, tmpDir, "cart-add.yaml", "")
	writeFile(t, tmpDir, "inventory-test.yaml", "")

	files, err := findScenarioFiles(tmpDir, "cart-*")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.True(t, strings.HasPrefix(filepath.Base(f), "cart-"), f)
	}

	_, err = findScenarioFiles(tmpDir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestGoldenFilePath(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"/path/to/scenario.yaml", "/path/to/golden/scenario.golden"},
		{"/path/to/scenario.yml", "/path/to/golden/scenario.golden"},
		{"scenarios/test.yaml", "scenarios/golden/test.golden"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, goldenFilePath(tc.input))
	}
}
