package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/llql/internal/builtin"
	"github.com/roach88/llql/internal/llql"
	"github.com/roach88/llql/internal/queryir"
)

// Run is the record of one executed statement.
type Run struct {
	ID     string
	Seq    int64
	Query  string // canonical statement text
	Result *Result
	Err    error

	// Front covers parsing and compilation; Engine covers execution.
	Front  time.Duration
	Engine time.Duration
}

// Engine compiles and executes statements against one data provider.
//
// Thread-safety: Query may be called from multiple goroutines; runs are
// stamped from an atomic sequence.
type Engine struct {
	registry *builtin.Registry
	schema   *Schema
	provider DataProvider
	clock    Clock
	seq      *Sequence
	ids      RunIDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the builtin registry.
func WithRegistry(r *builtin.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithSchema replaces the table schema.
func WithSchema(s *Schema) Option {
	return func(e *Engine) { e.schema = s }
}

// WithClock sets the clock used for run timings.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRunIDGenerator sets the run id source.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithSequence continues run numbering after start.
func WithSequence(start int64) Option {
	return func(e *Engine) { e.seq = NewSequenceAt(start) }
}

// New creates an engine over provider with the default registry and the
// instructions schema.
func New(provider DataProvider, opts ...Option) *Engine {
	e := &Engine{
		registry: builtin.Default(),
		schema:   DefaultSchema(),
		provider: provider,
		clock:    SystemClock{},
		seq:      NewSequence(),
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the builtin registry the engine compiles against.
func (e *Engine) Registry() *builtin.Registry { return e.registry }

// Query parses src as a script and runs its statements in order. It stops
// at the first failing statement; the failed run is included in the
// returned slice with Err set, and the error is also returned. A syntax
// error yields no runs.
func (e *Engine) Query(ctx context.Context, src string) ([]*Run, error) {
	start := e.clock.Now()
	stmts, err := llql.Parse(src)
	if err != nil {
		return nil, err
	}
	parsed := e.clock.Now().Sub(start)

	runs := make([]*Run, 0, len(stmts))
	for i, stmt := range stmts {
		sel := stmt.(queryir.Select)
		run := e.runStatement(ctx, &sel)
		if i == 0 {
			run.Front += parsed
		}
		runs = append(runs, run)
		if run.Err != nil {
			return runs, run.Err
		}
	}
	return runs, nil
}

func (e *Engine) runStatement(ctx context.Context, stmt *queryir.Select) *Run {
	run := &Run{
		ID:    e.ids.Generate(),
		Seq:   e.seq.Next(),
		Query: queryir.FormatStatement(stmt),
	}

	start := e.clock.Now()
	plan, err := Compile(stmt, e.registry, e.schema)
	compiled := e.clock.Now()
	run.Front = compiled.Sub(start)
	if err != nil {
		run.Err = err
		return run
	}

	run.Result, run.Err = Execute(ctx, plan, e.provider)
	run.Engine = e.clock.Now().Sub(compiled)
	if run.Err == nil {
		slog.Debug("statement executed", "run", run.ID, "seq", run.Seq, "rows", run.Result.Len())
	}
	return run
}
