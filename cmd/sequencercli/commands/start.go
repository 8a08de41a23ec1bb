package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/marmos91/sequencer/internal/logger"
	"github.com/marmos91/sequencer/internal/telemetry"
	"github.com/marmos91/sequencer/pkg/audit"
	"github.com/marmos91/sequencer/pkg/config"
	"github.com/marmos91/sequencer/pkg/leasestore"
	"github.com/marmos91/sequencer/pkg/leasestore/badger"
	"github.com/marmos91/sequencer/pkg/leasestore/memory"
	"github.com/marmos91/sequencer/pkg/leasestore/postgres"
	"github.com/marmos91/sequencer/pkg/leasestore/sqlite"
	"github.com/marmos91/sequencer/pkg/metrics"
	"github.com/marmos91/sequencer/pkg/sequencer"
	"github.com/marmos91/sequencer/pkg/transport"
)

var (
	foreground bool
	pidFile    string
	logFile    string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Sequencer",
	Long: `Start the Sequencer with the specified configuration.

By default, the server runs in the background (daemon mode). Use
--foreground to run in the foreground for debugging or when managed by
a process supervisor.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/sequencer/config.yaml.

Examples:
  # Start in background (default)
  sequencercli start

  # Start in foreground
  sequencercli start --foreground

  # Start with custom config file
  sequencercli start --config /etc/sequencer/config.yaml

  # Start with environment variable overrides
  SEQUENCER_LOGGING_LEVEL=DEBUG sequencercli start --foreground`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&foreground, "foreground", "f", false, "Run in foreground (default: background/daemon mode)")
	startCmd.Flags().StringVar(&pidFile, "pid-file", "", "Path to PID file (default: $XDG_STATE_HOME/sequencer/sequencercli.pid)")
	startCmd.Flags().StringVar(&logFile, "log-file", "", "Path to log file for daemon mode (default: $XDG_STATE_HOME/sequencer/sequencercli.log)")
}

func runStart(cmd *cobra.Command, args []string) error {
	if !foreground {
		return startDaemon()
	}

	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "sequencer",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "sequencer",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	fmt.Println("Sequencer - shared-log token allocator")
	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	} else {
		logger.Info("Telemetry disabled")
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint, "profile_types", cfg.Telemetry.Profiling.ProfileTypes)
	} else {
		logger.Info("Profiling disabled")
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsServer = newMetricsServer(cfg.Metrics.Port)
		go func() {
			logger.Info("metrics server listening", "port", cfg.Metrics.Port)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", "error", err)
			}
		}()
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("Metrics collection disabled")
	}

	store, closeStore, err := openLeaseStore(cfg.LeaseStore)
	if err != nil {
		return fmt.Errorf("failed to open lease store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("lease store close error", "error", err)
		}
	}()

	leaseManager := sequencer.NewLeaseManager(store, sequencer.LeaseManagerConfig{
		LeaseLength:        cfg.Sequencer.LeaseLength,
		LeaseRenewalNotice: cfg.Sequencer.LeaseRenewalNotice,
		InitialToken:       cfg.Sequencer.InitialToken,
	})

	allocator := sequencer.NewAllocator(leaseManager, sequencer.AllocatorConfig{
		ConflictCacheCapacity: cfg.Sequencer.MaxConflictCacheSize,
	})
	allocator.SetMetrics(metrics.NewSequencerMetrics())

	if err := allocator.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize allocator: %w", err)
	}
	logger.Info("Allocator initialized", "global_tail", allocator.GlobalTail(), "lease_boundary", allocator.LeaseBoundary())

	leaseStoreHealthy := func(ctx context.Context) error {
		_, _, err := store.ReadLease(ctx)
		return err
	}

	if cfg.Audit.Enabled {
		s3Client, err := audit.NewS3Client(ctx, cfg.Audit.Region)
		if err != nil {
			return fmt.Errorf("failed to build audit S3 client: %w", err)
		}
		exporter, err := audit.NewExporter(audit.Config{
			Client:   s3Client,
			Bucket:   cfg.Audit.Bucket,
			Prefix:   cfg.Audit.Prefix,
			Interval: cfg.Audit.Interval,
		}, allocator)
		if err != nil {
			return fmt.Errorf("failed to start checkpoint exporter: %w", err)
		}
		go exporter.Run(ctx)
		logger.Info("Checkpoint export enabled", "bucket", cfg.Audit.Bucket, "interval", cfg.Audit.Interval)
	} else {
		logger.Info("Checkpoint export disabled")
	}

	server, err := transport.NewServer(cfg.Transport, allocator, leaseStoreHealthy)
	if err != nil {
		return fmt.Errorf("failed to create transport server: %w", err)
	}
	logger.Info("Transport server configured", "port", server.Port())

	if pidFile != "" {
		if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", os.Getpid())), 0644); err != nil {
			return fmt.Errorf("failed to write PID file: %w", err)
		}
		defer func() { _ = os.Remove(pidFile) }()
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Sequencer is running. Press Ctrl+C to stop.")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("Shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("Server shutdown error", "error", err)
			return err
		}
		logger.Info("Server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("Server error", "error", err)
			return err
		}
		logger.Info("Server stopped")
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}

	return nil
}

// newMetricsServer builds the Prometheus metrics HTTP server serving
// /metrics on the configured port.
func newMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}

// openLeaseStore opens the configured persistent lease backend.
func openLeaseStore(cfg config.LeaseStoreConfig) (leasestore.Store, func() error, error) {
	switch cfg.Type {
	case config.LeaseStoreMemory:
		store := memory.New()
		return store, store.Close, nil
	case config.LeaseStoreBadger:
		store, err := badger.Open(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.LeaseStoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.LeaseStorePostgres:
		store, err := postgres.Open(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown lease store backend: %s", cfg.Type)
	}
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}

