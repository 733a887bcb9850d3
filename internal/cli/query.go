package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run a query against IR files",
		Long: `Run one query, or several separated by ';', against the --files modules.

Statements run in order and execution stops at the first failing one.

Example:
  llql query -f sample.ll "SELECT function_name, count(*) AS n FROM instructions GROUP BY function_name"
  llql query -f a.ll -f b.ll -o json "SELECT DISTINCT file_name FROM instructions"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryText(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

// NewScriptCommand creates the script command.
func NewScriptCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <file>",
		Short: "Run the statements of a query file",
		Long: `Read a file of ';' separated statements and run them against the --files modules.

Example:
  llql script -f sample.ll queries.sql`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read script", err)
			}
			return runQueryText(cmd, rootOpts, string(src))
		},
	}
	return cmd
}

func runQueryText(cmd *cobra.Command, opts *RootOptions, src string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	r, err := newRunner(ctx, cmd, opts, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Execute(ctx, src); err != nil {
		return reportedExitError(ExitFailure, "query failed", err)
	}
	return nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM, so a long
// scan stops with a CANCELED error and the history store is still closed.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, canceling query", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan) // Prevent signal handler leak
		cancel()
	}
}
