package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_OpcodeHistogram(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/opcode_histogram.yaml")
	require.NoError(t, err)

	// First run with -update to create golden file:
	//   go test ./internal/harness -run TestRunWithGolden -update
	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRenderTrace(t *testing.T) {
	out, err := RenderTrace(sampleResult().Trace)
	require.NoError(t, err)

	want := "-- step 0 run-0001 seq 1\n" +
		"SELECT function_name, n FROM instructions\n" +
		"function_name,n\n" +
		"main,3\n" +
		"helper,1\n" +
		"\n" +
		"-- step 1 run-0002 seq 2\n" +
		"SELECT nope FROM instructions\n" +
		"error: 1:8: E201: unknown column \"nope\" in table instructions\n"
	assert.Equal(t, want, string(out))
}

func TestRenderTrace_NotRun(t *testing.T) {
	out, err := RenderTrace([]StepTrace{{Step: 3, Query: "SELECT", Error: "1:7: boom", Code: CodeSyntax}})
	require.NoError(t, err)
	assert.Equal(t, "-- step 3\nSELECT\nerror: 1:7: boom\n", string(out))
}
