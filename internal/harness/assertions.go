package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string    // Assertion type for categorization
	Step     int       // Step under test
	Expected string    // Human-readable expected outcome
	Actual   string    // Human-readable actual outcome
	Trace    StepTrace // The statement the assertion looked at
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s (step %d)\n", e.Type, e.Step)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Trace.Query != "" {
		fmt.Fprintf(&buf, "\nQuery:\n  %s\n", e.Trace.Query)
	}
	if e.Trace.Failed() {
		fmt.Fprintf(&buf, "Error:\n  %s\n", e.Trace.Error)
	}

	return buf.String()
}

// assertRowCount checks that the step produced exactly Count rows.
func assertRowCount(t StepTrace, a Assertion) error {
	if t.Failed() || len(t.Rows) != a.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Step:     a.Step,
			Expected: fmt.Sprintf("%d rows", a.Count),
			Actual:   describeRows(t),
			Trace:    t,
		}
	}
	return nil
}

// assertContainsRow checks that one of the step's rows equals Row.
func assertContainsRow(t StepTrace, a Assertion) error {
	for _, row := range t.Rows {
		if slices.Equal(row, a.Row) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertContainsRow,
		Step:     a.Step,
		Expected: fmt.Sprintf("row %v", a.Row),
		Actual:   "not found in " + describeRows(t),
		Trace:    t,
	}
}

// assertColumnValues checks every value of one output column, in order.
func assertColumnValues(t StepTrace, a Assertion) error {
	col := slices.Index(t.Columns, a.Column)
	if col < 0 {
		return &AssertionError{
			Type:     AssertColumnValues,
			Step:     a.Step,
			Expected: fmt.Sprintf("column %q", a.Column),
			Actual:   fmt.Sprintf("columns %v", t.Columns),
			Trace:    t,
		}
	}

	got := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		got[i] = row[col]
	}
	want := a.Values
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertColumnValues,
			Step:     a.Step,
			Expected: fmt.Sprintf("%s = %v", a.Column, want),
			Actual:   fmt.Sprintf("%s = %v", a.Column, got),
			Trace:    t,
		}
	}
	return nil
}

// assertErrorCode checks that the step failed with Code.
func assertErrorCode(t StepTrace, a Assertion) error {
	if t.Code != a.Code {
		actual := "no error"
		if t.Failed() {
			actual = fmt.Sprintf("code %q", t.Code)
		}
		return &AssertionError{
			Type:     AssertErrorCode,
			Step:     a.Step,
			Expected: fmt.Sprintf("code %q", a.Code),
			Actual:   actual,
			Trace:    t,
		}
	}
	return nil
}

func describeRows(t StepTrace) string {
	if t.Failed() {
		return "error: " + t.Error
	}
	return fmt.Sprintf("%d rows", len(t.Rows))
}

// EvaluateAssertions checks every assertion against the result and returns
// the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for _, a := range assertions {
		t, ok := result.StepResult(a.Step)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: step %d did not run", a.Type, a.Step))
			continue
		}

		var err error
		switch a.Type {
		case AssertRowCount:
			err = assertRowCount(t, a)
		case AssertContainsRow:
			err = assertContainsRow(t, a)
		case AssertColumnValues:
			err = assertColumnValues(t, a)
		case AssertErrorCode:
			err = assertErrorCode(t, a)
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}
