package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/llql/internal/config"
	"github.com/roach88/llql/internal/printer"
)

// RootOptions holds global flags for all commands. Config is filled in by
// the root command before any subcommand runs: the configuration file
// first, then every flag the user set explicitly.
type RootOptions struct {
	Verbose    bool
	ConfigPath string
	Output     string // "render" | "json" | "csv"
	Files      []string
	Pagination bool
	PageSize   int
	Analysis   bool
	History    bool
	Database   string
	Jobs       int

	Config config.Config
}

// NewRootCommand creates the root command for the llql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: config.Default()}

	cmd := &cobra.Command{
		Use:   "llql",
		Short: "LLQL - SQL-like queries over LLVM IR",
		Long: `Query the instructions of textual LLVM IR modules with a SQL-like language.

Every instruction of every function in the --files modules is a row of the
instructions table (function_name, basic_block_name, instruction, file_name).
Pattern functions such as m_add or m_icmp_eq build instruction matchers that
m_inst tests against a row.

Example:
  llql query -f sample.ll "SELECT instruction FROM instructions WHERE m_inst(instruction, m_add())"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)
			return opts.resolve(cmd)
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.ConfigPath, "config", "", "configuration file (.cue or .toml)")
	pf.StringVarP(&opts.Output, "output", "o", printer.FormatRender, "output format (render|json|csv)")
	pf.StringSliceVarP(&opts.Files, "files", "f", nil, "LLVM IR (.ll) files to query")
	pf.BoolVar(&opts.Pagination, "pagination", false, "page rendered tables")
	pf.IntVar(&opts.PageSize, "page-size", printer.DefaultPageSize, "rows per page when paging")
	pf.BoolVar(&opts.Analysis, "analysis", false, "print row count and timings after each statement")
	pf.BoolVar(&opts.History, "history", false, "record runs in the history database")
	pf.StringVar(&opts.Database, "db", "", "history database path")
	pf.IntVar(&opts.Jobs, "jobs", 0, "modules parsed in parallel (0 = one per CPU)")

	// Add subcommands
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewScriptCommand(opts))
	cmd.AddCommand(NewReplCommand(opts))
	cmd.AddCommand(NewFunctionsCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// resolve loads the configuration and lays the explicitly set flags over
// it.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if o.Output != "" && !isValidFormat(o.Output) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid output format %q: must be one of %v", o.Output, printer.Formats))
	}

	dir, err := os.Getwd()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read working directory", err)
	}
	cfg, err := config.Resolve(o.ConfigPath, dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if cfg.Source != "" {
		slog.Debug("config loaded", "path", cfg.Source)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Format = o.Output
	}
	if flags.Changed("pagination") {
		cfg.Output.Pagination = o.Pagination
	}
	if flags.Changed("page-size") {
		cfg.Output.PageSize = o.PageSize
	}
	if flags.Changed("analysis") {
		cfg.Analysis = o.Analysis
	}
	if flags.Changed("jobs") {
		cfg.Jobs = o.Jobs
	}
	if flags.Changed("history") {
		cfg.History.Enabled = o.History
	}
	if flags.Changed("db") {
		cfg.History.Path = o.Database
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid settings", err)
	}

	o.Config = cfg
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(printer.Formats, format)
}
