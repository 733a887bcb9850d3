package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calcScenario(steps ...QueryStep) *Scenario {
	return &Scenario{
		Name:        "calc",
		Description: "inline calc module",
		Modules:     []InlineModule{{Name: "calc.ll", Source: calcModule}},
		Steps:       steps,
	}
}

func TestRun_ExpectPasses(t *testing.T) {
	result, err := Run(calcScenario(QueryStep{
		Query: "SELECT function_name, file_name FROM instructions LIMIT 1",
		Expect: &ExpectClause{
			Columns: []string{"function_name", "file_name"},
			Rows:    [][]string{{"calc", "calc.ll"}},
		},
	}))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 1)
	tr := result.Trace[0]
	assert.Equal(t, "run-0001", tr.RunID)
	assert.Equal(t, int64(1), tr.Seq)
	assert.Equal(t, "SELECT function_name, file_name FROM instructions LIMIT 1", tr.Query)
}

func TestRun_ExpectMismatch(t *testing.T) {
	result, err := Run(calcScenario(QueryStep{
		Query: "SELECT function_name FROM instructions",
		Expect: &ExpectClause{
			Columns: []string{"fn"},
			Rows:    [][]string{{"calc"}},
		},
	}))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "columns = [function_name], want [fn]")
	assert.Contains(t, result.Errors[1], "rows = [[calc] [calc]], want [[calc]]")
}

func TestRun_ExpectedError(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
		code  string
	}{
		{"compile", "SELECT nope FROM instructions", "E201", "E201"},
		{"unknown table", "SELECT * FROM functions", "E200", "E200"},
		{"syntax", "SELECT FROM instructions", "1:8", CodeSyntax},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(calcScenario(QueryStep{
				Query:  tt.query,
				Expect: &ExpectClause{Error: tt.want},
			}))
			require.NoError(t, err)

			assert.True(t, result.Pass, "errors: %v", result.Errors)
			got, ok := result.StepResult(0)
			require.True(t, ok)
			assert.Equal(t, tt.code, got.Code)
		})
	}
}

func TestRun_UnexpectedError(t *testing.T) {
	result, err := Run(calcScenario(QueryStep{Query: "SELECT nope FROM instructions"}))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "step 0: unexpected error")
}

func TestRun_ErrorExpectedButSucceeded(t *testing.T) {
	result, err := Run(calcScenario(QueryStep{
		Query:  "SELECT * FROM instructions",
		Expect: &ExpectClause{Error: "E201"},
	}))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "query succeeded")
}

func TestRun_ScriptStepTracesEveryStatement(t *testing.T) {
	result, err := Run(calcScenario(
		QueryStep{Query: "SELECT 1 AS one FROM instructions LIMIT 1; SELECT count(*) AS n FROM instructions"},
		QueryStep{Query: "SELECT instruction FROM instructions WHERE m_inst(instruction, m_return())"},
	))
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 3)
	assert.Equal(t, []int{0, 0, 1}, []int{result.Trace[0].Step, result.Trace[1].Step, result.Trace[2].Step})
	assert.Equal(t, []int64{1, 2, 3}, []int64{result.Trace[0].Seq, result.Trace[1].Seq, result.Trace[2].Seq})

	last, ok := result.StepResult(0)
	require.True(t, ok)
	assert.Equal(t, [][]string{{"2"}}, last.Rows)

	ret, _ := result.StepResult(1)
	assert.Equal(t, [][]string{{"ret i32 %a"}}, ret.Rows)
}

func TestRun_BadModule(t *testing.T) {
	s := calcScenario(QueryStep{Query: "SELECT * FROM instructions"})
	s.Modules[0].Source = "define i32 @f( {"

	_, err := Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load modules")
}

func TestRun_Scenarios(t *testing.T) {
	for _, path := range []string{
		"testdata/scenarios/opcode_histogram.yaml",
		"testdata/scenarios/sample_returns.yaml",
	} {
		path := path
		t.Run(path, func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}
