package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information. These variables can be overridden at build time
// via -ldflags.
var (
	Version   = "0.1.0"
	GitCommit = ""
	BuildDate = ""
)

var (
	versionNameColor   = color.New(color.FgCyan, color.Bold)
	versionNumberColor = color.New(color.FgGreen, color.Bold)
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print the llql version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s version %s\n", versionNameColor.Sprint("LLQL"), versionNumberColor.Sprint(Version))
			if GitCommit != "" {
				fmt.Fprintf(w, "commit: %s\n", GitCommit)
			}
			if BuildDate != "" {
				fmt.Fprintf(w, "built:  %s\n", BuildDate)
			}
			return nil
		},
	}
}
