package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/sequencer/internal/cli/health"
	"github.com/marmos91/sequencer/internal/cli/output"
	"github.com/marmos91/sequencer/internal/cli/timeutil"
)

var (
	statusOutput  string
	statusPidFile string
	statusPort    int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Sequencer status",
	Long: `Display the current status of the Sequencer.

This command checks the server health by calling the health endpoint
and displays status, uptime, global tail, and lease boundary.

Examples:
  # Check status (uses default settings)
  sequencercli status

  # Check status with custom transport port
  sequencercli status --port 9080

  # Output as JSON
  sequencercli status --output json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusPidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/sequencer/sequencercli.pid)")
	statusCmd.Flags().IntVar(&statusPort, "port", 8080, "Transport server port")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

// ServerStatus represents the Sequencer status information.
type ServerStatus struct {
	Running       bool   `json:"running" yaml:"running"`
	PID           int    `json:"pid,omitempty" yaml:"pid,omitempty"`
	Message       string `json:"message" yaml:"message"`
	StartedAt     string `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	Uptime        string `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Healthy           bool   `json:"healthy" yaml:"healthy"`
	GlobalTail        int64  `json:"global_tail,omitempty" yaml:"global_tail,omitempty"`
	LeaseBoundary     int64  `json:"lease_boundary,omitempty" yaml:"lease_boundary,omitempty"`
	ConflictCacheSize int    `json:"conflict_cache_size,omitempty" yaml:"conflict_cache_size,omitempty"`
	StreamCount       int    `json:"stream_count,omitempty" yaml:"stream_count,omitempty"`
	LeaseStoreHealthy bool   `json:"lease_store_healthy,omitempty" yaml:"lease_store_healthy,omitempty"`
	LeaseStoreError   string `json:"lease_store_error,omitempty" yaml:"lease_store_error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	status := ServerStatus{
		Running: false,
		Healthy: false,
		Message: "Sequencer is not running",
	}

	pidPath := statusPidFile
	if pidPath == "" {
		pidPath = GetDefaultPidFile()
	}

	pidData, err := os.ReadFile(pidPath)
	if err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(pidData)))
		if err == nil {
			process, err := os.FindProcess(pid)
			if err == nil {
				if err := process.Signal(syscall.Signal(0)); err == nil {
					status.Running = true
					status.PID = pid
				}
			}
		}
	}

	healthURL := fmt.Sprintf("http://localhost:%d/health", statusPort)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(healthURL)
	if err == nil {
		defer func() { _ = resp.Body.Close() }()

		var healthResp health.Response
		if err := json.NewDecoder(resp.Body).Decode(&healthResp); err == nil {
			status.Running = true
			status.Healthy = healthResp.Status == "healthy" || healthResp.Status == "ready"
			status.StartedAt = healthResp.Data.StartedAt
			status.Uptime = healthResp.Data.Uptime
			if status.Healthy {
				status.Message = "Sequencer is running and healthy"
			} else {
				status.Message = fmt.Sprintf("Sequencer is running but unhealthy: %s", healthResp.Error)
			}
		} else {
			status.Running = true
			status.Message = "Sequencer is running but health response invalid"
		}
	} else if status.Running {
		status.Message = "Sequencer process exists but health check failed"
	}

	if status.Healthy {
		if adminState, err := fetchAdminState(statusPort); err == nil {
			status.GlobalTail = adminState.GlobalTail
			status.LeaseBoundary = adminState.LeaseBoundary
			status.ConflictCacheSize = adminState.ConflictCacheSize
			status.StreamCount = adminState.StreamCount
			status.LeaseStoreHealthy = adminState.LeaseStoreHealthy
			status.LeaseStoreError = adminState.LeaseStoreError
		}
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, status)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, status)
	default:
		printStatusTable(status)
	}

	return nil
}

type adminStateResponse struct {
	GlobalTail        int64  `json:"global_tail"`
	LeaseBoundary     int64  `json:"lease_boundary"`
	ConflictCacheSize int    `json:"conflict_cache_size"`
	StreamCount       int    `json:"stream_count"`
	LeaseStoreHealthy bool   `json:"lease_store_healthy"`
	LeaseStoreError   string `json:"lease_store_error,omitempty"`
}

// fetchAdminState queries the JWT-gated /v1/admin/state endpoint, minting a
// short-lived token from the admin secret in the loaded config (or the
// SEQUENCER_ADMIN_SECRET environment variable, which takes precedence).
// Returns an error (silently ignored by callers) if no secret is available,
// since global_tail/lease_boundary are a convenience, not required for a
// basic health check.
func fetchAdminState(port int) (adminStateResponse, error) {
	token, err := mintAdminToken()
	if err != nil {
		return adminStateResponse{}, err
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://localhost:%d/v1/admin/state", port), nil)
	if err != nil {
		return adminStateResponse{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return adminStateResponse{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var state adminStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return adminStateResponse{}, err
	}
	return state, nil
}

func printStatusTable(status ServerStatus) {
	fmt.Println()
	fmt.Println("Sequencer Status")
	fmt.Println()

	var pairs [][2]string

	if status.Running {
		if status.Healthy {
			pairs = append(pairs, [2]string{"Status", "\033[32m● Running\033[0m"})
		} else {
			pairs = append(pairs, [2]string{"Status", "\033[33m● Running (unhealthy)\033[0m"})
		}
		pairs = append(pairs, [2]string{"PID", fmt.Sprintf("%d", status.PID)})
		if status.StartedAt != "" {
			pairs = append(pairs, [2]string{"Started", timeutil.FormatTime(status.StartedAt)})
		}
		if status.Uptime != "" {
			pairs = append(pairs, [2]string{"Uptime", timeutil.FormatUptime(status.Uptime)})
		}
		if status.Healthy {
			pairs = append(pairs, [2]string{"Global tail", fmt.Sprintf("%d", status.GlobalTail)})
			pairs = append(pairs, [2]string{"Lease boundary", fmt.Sprintf("%d", status.LeaseBoundary)})
			pairs = append(pairs, [2]string{"Streams tracked", fmt.Sprintf("%d", status.StreamCount)})
			pairs = append(pairs, [2]string{"Conflict cache size", fmt.Sprintf("%d", status.ConflictCacheSize)})
			if status.LeaseStoreHealthy {
				pairs = append(pairs, [2]string{"Lease store", "\033[32mhealthy\033[0m"})
			} else {
				pairs = append(pairs, [2]string{"Lease store", fmt.Sprintf("\033[31munhealthy\033[0m: %s", status.LeaseStoreError)})
			}
		}
	} else {
		pairs = append(pairs, [2]string{"Status", "\033[31m○ Stopped\033[0m"})
	}

	_ = output.SimpleTable(os.Stdout, pairs)

	fmt.Println()
	fmt.Printf("  %s\n", status.Message)
	fmt.Println()
}
