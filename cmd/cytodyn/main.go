// Command cytodyn is the unified CLI: serve the API, run simulations
// locally, or inspect the cell-line catalog.
package main

import (
	"github.com/turtacn/cytodyn/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
	cli.Execute()
}
