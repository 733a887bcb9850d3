package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/llql/internal/builtin"
	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/value"
)

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "functions [prefix]",
		Short: "List the builtin functions and their signatures",
		Long: `List every function a query can call, optionally only those whose name
starts with prefix.

Example:
  llql functions m_icmp`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			return runFunctions(cmd, rootOpts, prefix)
		},
	}
	return cmd
}

func runFunctions(cmd *cobra.Command, opts *RootOptions, prefix string) error {
	result := functionTable(builtin.Default(), prefix)

	p, err := resultPrinter(cmd, opts)
	if err != nil {
		return err
	}
	return p.Print(cmd.OutOrStdout(), result)
}

// functionTable lists the registry entries whose name starts with prefix,
// in name order.
func functionTable(reg *builtin.Registry, prefix string) *engine.Result {
	result := &engine.Result{Columns: []string{"name", "kind", "signature"}}
	for _, name := range reg.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		b, _ := reg.Lookup(name)
		result.Rows = append(result.Rows, []value.Value{
			value.TextValue(name),
			value.TextValue(b.Kind.String()),
			value.TextValue(b.Signature.String()),
		})
	}
	return result
}
