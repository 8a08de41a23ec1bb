// Command sequencercli starts and manages a Sequencer instance.
package main

import (
	"fmt"
	"os"

	"github.com/marmos91/sequencer/cmd/sequencercli/commands"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/sequencer/pkg/metrics/prometheus"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
