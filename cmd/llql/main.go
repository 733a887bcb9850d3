// Command llql runs SQL-like queries over LLVM IR instructions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/llql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
