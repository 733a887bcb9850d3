package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/printer"
	"github.com/roach88/llql/internal/store"
	"github.com/roach88/llql/internal/value"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// NewHistoryCommand creates the history command and its show subcommand.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded query runs",
		Long: `List the runs recorded with --history, oldest first.

The database is taken from --db or history.path in the configuration file.

Examples:
  llql history --limit 20
  llql history show 0190f6c2-7d1e-7b39-9a3e-5f4d2c1b0a99`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "number of most recent runs to list (0 = all)")

	cmd.AddCommand(&cobra.Command{
		Use:           "show <id>",
		Short:         "Show one recorded run with its result",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, rootOpts, args[0])
		},
	})

	return cmd
}

// openExistingHistory opens the configured database. ok is false when no
// history was ever recorded.
func openExistingHistory(opts *RootOptions) (st *store.Store, ok bool, err error) {
	path := opts.Config.History.Path
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	st, err = store.Open(path)
	if err != nil {
		return nil, false, WrapExitError(ExitCommandError, "failed to open history database", err)
	}
	return st, true, nil
}

func resultPrinter(cmd *cobra.Command, opts *RootOptions) (printer.Printer, error) {
	p, err := printer.New(opts.Config.Output.Format, printer.Options{
		Pagination: opts.Config.Output.Pagination,
		PageSize:   opts.Config.Output.PageSize,
		In:         cmd.InOrStdin(),
	})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid output format", err)
	}
	return p, nil
}

func runHistoryList(cmd *cobra.Command, opts *HistoryOptions) error {
	st, ok, err := openExistingHistory(opts.RootOptions)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No history recorded.")
		return nil
	}
	defer st.Close()

	records, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	p, err := resultPrinter(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	return p.Print(cmd.OutOrStdout(), historyTable(records))
}

// historyTable turns history records into a printable result.
func historyTable(records []store.Record) *engine.Result {
	result := &engine.Result{Columns: []string{"id", "seq", "status", "rows", "query"}}
	for _, rec := range records {
		result.Rows = append(result.Rows, []value.Value{
			value.TextValue(rec.ID),
			value.IntValue(rec.Seq),
			value.TextValue(string(rec.Status)),
			value.IntValue(int64(rec.RowCount)),
			value.TextValue(rec.Query),
		})
	}
	return result
}

func runHistoryShow(cmd *cobra.Command, opts *RootOptions, id string) error {
	st, ok, err := openExistingHistory(opts)
	if err != nil {
		return err
	}
	if !ok {
		return NewExitError(ExitCommandError, "no history recorded")
	}
	defer st.Close()

	rec, err := st.ReadRun(cmd.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run:   %s (seq %d)\n", rec.ID, rec.Seq)
	fmt.Fprintf(w, "Files: %s\n", strings.Join(rec.Files, ", "))
	fmt.Fprintf(w, "Query: %s\n", rec.Query)
	fmt.Fprintf(w, "Time:  total %s, front %s, engine %s\n", rec.Front+rec.Engine, rec.Front, rec.Engine)

	if rec.Status == store.StatusError {
		fmt.Fprintf(w, "Error: %s\n", rec.Error)
		return nil
	}
	if rec.Snapshot == nil {
		return nil
	}

	p, err := resultPrinter(cmd, opts)
	if err != nil {
		return err
	}
	return p.Print(w, rec.Snapshot.Result())
}
