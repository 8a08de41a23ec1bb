package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the sequencercli version, commit, and build date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("sequencercli %s (commit: %s, built: %s)\n", Version, Commit, Date)
		return nil
	},
}
