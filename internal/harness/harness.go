package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/ir"
	"github.com/roach88/llql/internal/irtext"
	"github.com/roach88/llql/internal/llql"
	"github.com/roach88/llql/internal/store"
	"github.com/roach88/llql/internal/testutil"
)

// CodeSyntax is the error code reported for statements that do not parse.
const CodeSyntax = "SYNTAX"

// Harness is the scenario execution engine.
// It runs steps with a deterministic clock and run ids.
type Harness struct {
	store  *store.Store
	engine *engine.Engine
	files  []string
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Load the IR files and inline modules into one session
// 2. Create an engine with a step clock and fixed run ids
// 3. Execute every step, recording runs in the store
// 4. Check expect clauses and assertions against the stored runs
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	session, err := loadSession(ctx, scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load modules: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	eng := engine.New(engine.NewIRDataProvider(session),
		engine.WithClock(testutil.NewStepClock(time.Millisecond)),
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run")),
	)

	h := &Harness{
		store:  st,
		engine: eng,
		files:  moduleNames(session),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func loadSession(ctx context.Context, scenario *Scenario) (*ir.Session, error) {
	var modules []*ir.Module
	if len(scenario.Files) > 0 {
		s, err := irtext.LoadSession(ctx, scenario.Files, 0)
		if err != nil {
			return nil, err
		}
		modules = append(modules, s.Modules()...)
	}
	for _, inline := range scenario.Modules {
		m, err := irtext.Parse(inline.Name, []byte(inline.Source))
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return ir.NewSession(modules...), nil
}

func moduleNames(s *ir.Session) []string {
	names := make([]string, 0, len(s.Modules()))
	for _, m := range s.Modules() {
		names = append(names, m.Name)
	}
	return names
}

// executeStep runs one step, stores its runs, and reads them back into the
// trace before checking the expect clause.
func (h *Harness) executeStep(ctx context.Context, index int, step QueryStep, result *Result) error {
	runs, qerr := h.engine.Query(ctx, step.Query)

	if len(runs) == 0 && qerr != nil {
		// The script did not parse, so nothing ran.
		result.AddTrace(StepTrace{
			Step:  index,
			Query: step.Query,
			Error: qerr.Error(),
			Code:  errorCode(qerr),
		})
	}

	if err := h.store.WriteRuns(ctx, runs, h.files); err != nil {
		return fmt.Errorf("failed to record runs: %w", err)
	}

	for _, run := range runs {
		rec, err := h.store.ReadRun(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to read run %s: %w", run.ID, err)
		}
		trace := StepTrace{
			Step:    index,
			RunID:   rec.ID,
			Seq:     rec.Seq,
			Query:   rec.Query,
			Columns: rec.Columns,
			Error:   rec.Error,
		}
		if run.Err != nil {
			trace.Code = errorCode(run.Err)
		}
		if rec.Snapshot != nil {
			trace.Rows = make([][]string, len(rec.Snapshot.Rows))
			for i, cells := range rec.Snapshot.Rows {
				row := make([]string, len(cells))
				for j, c := range cells {
					row[j] = c.Value().Literal()
				}
				trace.Rows[i] = row
			}
		}
		result.AddTrace(trace)

		h.logger.Info("step executed",
			"step", index,
			"run", rec.ID,
			"seq", rec.Seq,
			"rows", rec.RowCount,
		)
	}

	if step.Expect != nil {
		got, _ := result.StepResult(index)
		for _, msg := range checkExpect(index, step.Expect, got) {
			result.AddError(msg)
		}
	} else if qerr != nil {
		result.AddError(fmt.Sprintf("step %d: unexpected error: %v", index, qerr))
	}

	return nil
}

// checkExpect compares a step outcome with its expect clause.
func checkExpect(index int, want *ExpectClause, got StepTrace) []string {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf("step %d: ", index)+fmt.Sprintf(format, args...))
	}

	if want.Error != "" {
		switch {
		case !got.Failed():
			fail("expected error containing %q, query succeeded", want.Error)
		case !strings.Contains(got.Error, want.Error):
			fail("expected error containing %q, got %q", want.Error, got.Error)
		}
		return errs
	}

	if got.Failed() {
		fail("unexpected error: %s", got.Error)
		return errs
	}
	if want.Columns != nil && !slices.Equal(want.Columns, got.Columns) {
		fail("columns = %v, want %v", got.Columns, want.Columns)
	}
	if want.Rows != nil && !slices.EqualFunc(want.Rows, got.Rows, slices.Equal[[]string]) {
		fail("rows = %v, want %v", got.Rows, want.Rows)
	}
	return errs
}

// errorCode extracts the category of a query error.
func errorCode(err error) string {
	var ce *engine.CompileError
	if errors.As(err, &ce) {
		return string(ce.Code)
	}
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	var se *llql.SyntaxError
	if errors.As(err, &se) {
		return CodeSyntax
	}
	return ""
}
