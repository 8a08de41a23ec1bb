package config

import "time"

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applySequencerDefaults(&cfg.Sequencer)
	applyLeaseStoreDefaults(&cfg.LeaseStore)
	cfg.Transport.ApplyDefaults()
	applyMetricsDefaults(&cfg.Metrics)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyAuditDefaults(&cfg.Audit)
	applyLoggingDefaults(&cfg.Logging)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}
}

// applySequencerDefaults sets allocator and lease manager defaults.
func applySequencerDefaults(cfg *SequencerConfig) {
	if cfg.LeaseLength == 0 {
		cfg.LeaseLength = 100_000
	}
	if cfg.LeaseRenewalNotice == 0 {
		cfg.LeaseRenewalNotice = 10_000
	}
	if cfg.MaxConflictCacheSize == 0 {
		cfg.MaxConflictCacheSize = 10_000
	}
	// InitialToken's zero value (0) is a legitimate override value, so the
	// sentinel can only be distinguished from "unset" at the YAML layer;
	// treat the Go zero value as "no override requested".
	if cfg.InitialToken == 0 {
		cfg.InitialToken = initialTokenSentinel
	}
}

// applyLeaseStoreDefaults sets lease store backend defaults. Badger is the
// default backend: embedded, zero external dependency.
func applyLeaseStoreDefaults(cfg *LeaseStoreConfig) {
	if cfg.Type == "" {
		cfg.Type = LeaseStoreBadger
	}
	if cfg.BadgerPath == "" {
		cfg.BadgerPath = "/var/lib/sequencer/lease.badger"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "/var/lib/sequencer/lease.sqlite"
	}
	cfg.Postgres.ApplyDefaults()
}

// applyMetricsDefaults sets Prometheus metrics server defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false (opt-in for metrics)
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyTelemetryDefaults sets OpenTelemetry and Pyroscope defaults.
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	// Enabled defaults to false (opt-in for tracing)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}

	// Default sample rate samples one in ten requests; the allocator is a
	// single hot path and full tracing would dominate its own latency.
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 0.1
	}

	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope continuous profiling defaults.
func applyProfilingDefaults(cfg *ProfilingConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:4040"
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = []string{"cpu", "alloc_objects", "inuse_objects"}
	}
}

// applyAuditDefaults sets checkpoint export defaults. Disabled by default;
// operators opt in once a bucket is provisioned.
func applyAuditDefaults(cfg *AuditConfig) {
	if cfg.Prefix == "" {
		cfg.Prefix = "sequencer/checkpoints"
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour
	}
}

// applyLoggingDefaults sets logging defaults.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
