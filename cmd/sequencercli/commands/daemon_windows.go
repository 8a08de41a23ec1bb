//go:build windows

package commands

import "fmt"

// startDaemon is not supported on Windows.
// Use --foreground to run the Sequencer in the foreground.
func startDaemon() error {
	return fmt.Errorf("daemon mode is not supported on Windows, use --foreground")
}
