package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/printer"
	"github.com/roach88/llql/internal/value"
)

// RenderTrace writes the trace in the golden file format: a header per
// statement, the canonical query text, then either the rows as CSV or the
// error.
//
//	-- step 0 run-0001 seq 1
//	SELECT function_name FROM instructions LIMIT 1
//	function_name
//	add
func RenderTrace(trace []StepTrace) ([]byte, error) {
	var buf bytes.Buffer
	for i, t := range trace {
		if i > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "-- step %d", t.Step)
		if t.RunID != "" {
			fmt.Fprintf(&buf, " %s seq %d", t.RunID, t.Seq)
		}
		buf.WriteByte('\n')
		buf.WriteString(t.Query)
		buf.WriteByte('\n')

		if t.Failed() {
			fmt.Fprintf(&buf, "error: %s\n", t.Error)
			continue
		}
		if err := (printer.CSVPrinter{}).Print(&buf, traceResult(t)); err != nil {
			return nil, fmt.Errorf("render step %d: %w", t.Step, err)
		}
	}
	return buf.Bytes(), nil
}

func traceResult(t StepTrace) *engine.Result {
	r := &engine.Result{Columns: t.Columns, Rows: make([][]value.Value, len(t.Rows))}
	for i, row := range t.Rows {
		vals := make([]value.Value, len(row))
		for j, s := range row {
			vals[j] = value.TextValue(s)
		}
		r.Rows[i] = vals
	}
	return r
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := RenderTrace(result.Trace)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
