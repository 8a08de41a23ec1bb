package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/sequencer/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Load the configuration file and report whether it passes
validation: struct tags, and the cross-field rules (lease renewal
notice versus lease length, admin secret length, lease store backend
requirements, audit bucket requirement).

Examples:
  sequencercli config validate
  sequencercli config validate --config /etc/sequencer/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	fmt.Printf("Configuration file: %s\n", displayPath)
	fmt.Println("Validation: OK")

	fmt.Printf("\nConfiguration summary:\n")
	fmt.Printf("  Lease store:     %s\n", cfg.LeaseStore.Type)
	fmt.Printf("  Transport port:  %d\n", cfg.Transport.Port)
	fmt.Printf("  Log level:       %s\n", cfg.Logging.Level)

	return nil
}
