package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	internalprompt "github.com/marmos91/sequencer/internal/cli/prompt"
	cfgpkg "github.com/marmos91/sequencer/pkg/config"
	"github.com/marmos91/sequencer/pkg/transport"
	"github.com/marmos91/sequencer/pkg/transport/auth"
)

var (
	leaseResetPort  int
	leaseResetForce bool
)

var leaseCmd = &cobra.Command{
	Use:   "lease",
	Short: "Manage the Sequencer's lease boundary",
}

var leaseResetCmd = &cobra.Command{
	Use:   "reset <token>",
	Short: "Administratively reset the lease boundary and global tail",
	Long: `Reposition both the lease boundary and the global tail to the
given token, bypassing the normal skip-forward rule.

This is a destructive administrative operation: any client still
holding a token issued before the reset can violate monotonicity
against new grants. Use only during a coordinated maintenance window.

Examples:
  sequencercli lease reset 1000000
  sequencercli lease reset 1000000 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runLeaseReset,
}

func init() {
	leaseCmd.AddCommand(leaseResetCmd)
	leaseResetCmd.Flags().IntVar(&leaseResetPort, "port", 8080, "Transport server port")
	leaseResetCmd.Flags().BoolVar(&leaseResetForce, "force", false, "Skip the confirmation prompt")
}

func runLeaseReset(cmd *cobra.Command, args []string) error {
	var token int64
	if _, err := fmt.Sscanf(args[0], "%d", &token); err != nil {
		return fmt.Errorf("invalid token %q: %w", args[0], err)
	}

	if !leaseResetForce {
		confirmed, err := internalprompt.ConfirmDanger(
			fmt.Sprintf("This will reset the lease boundary and global tail to %d", token), "RESET")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	jwt, err := mintAdminToken()
	if err != nil {
		return fmt.Errorf("failed to mint admin token: %w", err)
	}

	body, err := json.Marshal(struct {
		Token int64 `json:"token"`
	}{Token: token})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("http://localhost:%d/v1/admin/lease/reset", leaseResetPort), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+jwt)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach sequencer: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lease reset failed: server returned %s", resp.Status)
	}

	fmt.Printf("Lease boundary and global tail reset to %d\n", token)
	return nil
}

// mintAdminToken loads the Sequencer's configuration and mints a
// short-lived admin JWT, so CLI commands can reach JWT-gated admin
// routes without a pre-existing token.
func mintAdminToken() (string, error) {
	cfg, err := cfgpkg.MustLoad(GetConfigFile())
	if err != nil {
		return "", err
	}

	cfg.Transport.ApplyDefaults()
	secret := cfg.Transport.AdminSecret()
	if len(secret) < 32 {
		return "", fmt.Errorf("admin JWT secret must be at least 32 characters; set via %s env var or config", transport.EnvAdminSecret)
	}

	authService, err := auth.NewService(auth.Config{
		Secret:        secret,
		TokenDuration: cfg.Transport.Admin.TokenDuration,
	})
	if err != nil {
		return "", err
	}

	token, _, err := authService.IssueToken()
	return token, err
}
