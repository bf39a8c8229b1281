package main

import (
	"os"

	"github.com/eventforge/asyncgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
