package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const replPrompt = "llql > "

// NewReplCommand creates the repl command.
func NewReplCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive query shell",
		Long: `Read queries line by line and run each against the --files modules.

The prompt is shown only when input comes from a terminal, so queries can
also be piped in. Type exit to quit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd, rootOpts)
		},
	}
	return cmd
}

func runRepl(cmd *cobra.Command, opts *RootOptions) error {
	in := bufio.NewReader(cmd.InOrStdin())
	r, err := newRunner(cmd.Context(), cmd, opts, in)
	if err != nil {
		return err
	}
	defer r.Close()

	out := cmd.OutOrStdout()
	prompt := isTerminal(cmd.InOrStdin())
	for {
		if prompt {
			fmt.Fprint(out, replPrompt)
		}
		line, readErr := in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return WrapExitError(ExitCommandError, "failed to read input", readErr)
		}

		switch query := strings.TrimSpace(line); query {
		case "":
		case "exit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		default:
			// Failures were reported; the session goes on.
			ctx, stop := signalContext(cmd.Context())
			_ = r.Execute(ctx, query)
			stop()
		}

		if readErr != nil {
			return nil
		}
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
