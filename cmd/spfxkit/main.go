// Package main provides the spfxkit command.
package main

import (
	"os"

	"github.com/leapstack-labs/spfxkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
