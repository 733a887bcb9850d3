package harness

// StepTrace records one executed statement. A step holding a script with
// several statements contributes one entry per statement.
type StepTrace struct {
	Step    int
	RunID   string
	Seq     int64
	Query   string
	Columns []string
	Rows    [][]string

	// Error is the error text and Code its category (E2xx, a runtime code,
	// or SYNTAX). Both are empty for a successful run.
	Error string
	Code  string
}

// Failed reports whether the statement produced an error.
func (t StepTrace) Failed() bool { return t.Error != "" }

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool

	// Trace holds every executed statement in run order.
	Trace []StepTrace

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []StepTrace{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an executed statement.
func (r *Result) AddTrace(t StepTrace) {
	r.Trace = append(r.Trace, t)
}

// StepResult returns the last statement executed for step.
func (r *Result) StepResult(step int) (StepTrace, bool) {
	for i := len(r.Trace) - 1; i >= 0; i-- {
		if r.Trace[i].Step == step {
			return r.Trace[i], true
		}
	}
	return StepTrace{}, false
}
