// Command mm parses Metamath databases and verifies their proofs.
package main

import (
	"fmt"
	"os"

	"github.com/japonophile/mm/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
