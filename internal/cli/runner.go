package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/irtext"
	"github.com/roach88/llql/internal/printer"
	"github.com/roach88/llql/internal/store"
)

// Runner executes query text against the loaded modules and renders every
// run.
type Runner struct {
	Engine   *engine.Engine
	Printer  printer.Printer
	Reporter *DiagnosticReporter
	Out      io.Writer

	// Store records runs when history is enabled; nil otherwise.
	Store    *store.Store
	Files    []string
	Analysis bool
}

// Execute runs every statement of src. Results of the statements that ran
// before a failure are still printed; the failure is reported and
// returned.
func (r *Runner) Execute(ctx context.Context, src string) error {
	runs, err := r.Engine.Query(ctx, src)
	r.record(ctx, runs)

	for _, run := range runs {
		if run.Err != nil {
			break
		}
		if perr := r.Printer.Print(r.Out, run.Result); perr != nil {
			return fmt.Errorf("print result: %w", perr)
		}
		if r.Analysis {
			printAnalysis(r.Out, run)
		}
	}

	if err != nil {
		r.Reporter.Report(src, err)
		return err
	}
	return nil
}

func (r *Runner) record(ctx context.Context, runs []*engine.Run) {
	if r.Store == nil || len(runs) == 0 {
		return
	}
	// A history failure must not hide the query result.
	if err := r.Store.WriteRuns(ctx, runs, r.Files); err != nil {
		slog.Warn("failed to record history", "error", err)
	}
}

// printAnalysis writes the row count and timing line for one run.
func printAnalysis(w io.Writer, run *engine.Run) {
	fmt.Fprintf(w, "%d row in set (total: %s, front: %s, engine: %s)\n",
		run.Result.Len(), run.Front+run.Engine, run.Front, run.Engine)
}

// Close releases the history store.
func (r *Runner) Close() {
	if r.Store == nil {
		return
	}
	if err := r.Store.Close(); err != nil {
		slog.Error("error closing history database", "error", err)
	}
}

// newRunner validates and loads the input files, then builds the engine,
// printer and history store from the resolved configuration. in supplies
// paging commands.
func newRunner(ctx context.Context, cmd *cobra.Command, opts *RootOptions, in io.Reader) (*Runner, error) {
	cfg := opts.Config
	reporter := NewDiagnosticReporter(cmd.ErrOrStderr())

	if err := validateFiles(opts.Files); err != nil {
		reporter.Report("", err)
		return nil, reportedExitError(ExitCommandError, "invalid input files", err)
	}

	slog.Debug("loading modules", "files", len(opts.Files), "jobs", cfg.Jobs)
	session, err := irtext.LoadSession(ctx, opts.Files, cfg.Jobs)
	if err != nil {
		reporter.Report("", err)
		return nil, reportedExitError(ExitCommandError, "failed to load modules", err)
	}
	slog.Debug("modules loaded", "modules", len(session.Modules()), "instructions", session.NumInstructions())

	p, err := printer.New(cfg.Output.Format, printer.Options{
		Pagination: cfg.Output.Pagination,
		PageSize:   cfg.Output.PageSize,
		In:         in,
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid output format", err)
	}

	r := &Runner{
		Printer:  p,
		Reporter: reporter,
		Out:      cmd.OutOrStdout(),
		Files:    opts.Files,
		Analysis: cfg.Analysis,
	}

	var engineOpts []engine.Option
	if cfg.History.Enabled {
		st, err := openHistory(cfg.History.Path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open history database", err)
		}
		last, err := st.MaxSeq(ctx)
		if err != nil {
			_ = st.Close()
			return nil, WrapExitError(ExitCommandError, "failed to read history", err)
		}
		r.Store = st
		engineOpts = append(engineOpts, engine.WithSequence(last))
	}

	r.Engine = engine.New(engine.NewIRDataProvider(session), engineOpts...)
	return r, nil
}

// openHistory opens the history database, creating its directory.
func openHistory(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	slog.Debug("opening history database", "path", path)
	return store.Open(path)
}

// validateFiles checks that every input exists and is textual IR. Bitcode
// is recognized so the user is told to disassemble it.
func validateFiles(files []string) error {
	if len(files) == 0 {
		return errors.New("no input files, pass at least one with --files")
	}
	for _, file := range files {
		info, err := os.Stat(file)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file %s does not exist", file)
		}
		if err != nil {
			return fmt.Errorf("file %s: %w", file, err)
		}
		if info.IsDir() {
			return fmt.Errorf("file %s is a directory", file)
		}

		switch strings.ToLower(filepath.Ext(file)) {
		case ".ll":
		case ".bc":
			return fmt.Errorf("file %s: %w", file, irtext.ErrBitcode)
		default:
			return fmt.Errorf("file %s must end with the .ll extension", file)
		}
	}
	return nil
}
