package main

import (
	"fmt"
	"os"

	"github.com/roach88/flatkey/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own formatted errors; ExitError messages
		// here cover flag parsing and other pre-command failures.
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
