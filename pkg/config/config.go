// Package config loads and validates the Sequencer's static
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/sequencer/pkg/leasestore/postgres"
	"github.com/marmos91/sequencer/pkg/sequencer"
	"github.com/marmos91/sequencer/pkg/transport"
)

// Config represents the Sequencer's static configuration.
//
// Dynamic state (the global tail, the lease boundary, the stream index,
// the conflict cache) lives in memory and the lease store, not here.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (SEQUENCER_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Sequencer controls lease length, renewal notice, conflict cache
	// sizing, and the administrative initial-token override.
	Sequencer SequencerConfig `mapstructure:"sequencer" yaml:"sequencer"`

	// LeaseStore selects and configures the persistent lease backend.
	LeaseStore LeaseStoreConfig `mapstructure:"lease_store" yaml:"lease_store"`

	// Transport configures the HTTP/JSON API, including the admin JWT.
	Transport transport.Config `mapstructure:"transport" yaml:"transport"`

	// Metrics configures the Prometheus metrics HTTP server.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Telemetry controls OpenTelemetry distributed tracing and Pyroscope
	// continuous profiling.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Audit configures the periodic S3 checkpoint export. Disabled by
	// default.
	Audit AuditConfig `mapstructure:"audit" yaml:"audit"`

	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`
}

// SequencerConfig controls the allocator and lease manager.
type SequencerConfig struct {
	// LeaseLength is the width of the range granted per lease renewal.
	// Default: 100_000.
	LeaseLength int64 `mapstructure:"lease_length" validate:"gt=0" yaml:"lease_length"`

	// LeaseRenewalNotice is the slack, in positions, before the lease
	// boundary at which renewal is attempted. Default: 10_000.
	LeaseRenewalNotice int64 `mapstructure:"lease_renewal_notice" validate:"gte=0" yaml:"lease_renewal_notice"`

	// MaxConflictCacheSize bounds the number of conflict keys retained
	// for transaction-commit resolution. Default: 10_000.
	MaxConflictCacheSize int `mapstructure:"max_conflict_cache_size" validate:"gt=0" yaml:"max_conflict_cache_size"`

	// InitialToken is an administrative override applied at boot that
	// bypasses the skip-forward rule. Sentinel math.MinInt64 (the default
	// zero value is remapped to the sentinel by ApplyDefaults) disables
	// it.
	InitialToken int64 `mapstructure:"initial_token" yaml:"initial_token,omitempty"`
}

// LeaseStoreBackend selects a leasestore.Store implementation.
type LeaseStoreBackend string

const (
	LeaseStoreMemory   LeaseStoreBackend = "memory"
	LeaseStoreBadger   LeaseStoreBackend = "badger"
	LeaseStorePostgres LeaseStoreBackend = "postgres"
	LeaseStoreSQLite   LeaseStoreBackend = "sqlite"
)

// LeaseStoreConfig selects and configures the persistent lease backend.
type LeaseStoreConfig struct {
	Type LeaseStoreBackend `mapstructure:"type" validate:"required,oneof=memory badger postgres sqlite" yaml:"type"`

	// BadgerPath is the directory for the embedded Badger database. Used
	// only when Type is "badger".
	BadgerPath string `mapstructure:"badger_path" yaml:"badger_path,omitempty"`

	// SQLitePath is the file path for the pure-Go SQLite database. Used
	// only when Type is "sqlite".
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path,omitempty"`

	// Postgres holds connection settings. Used only when Type is
	// "postgres".
	Postgres postgres.Config `mapstructure:"postgres" yaml:"postgres,omitempty"`
}

// MetricsConfig configures the Prometheus metrics HTTP server.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	Port    int  `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing.
type TelemetryConfig struct {
	Enabled    bool            `mapstructure:"enabled" yaml:"enabled"`
	Endpoint   string          `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure   bool            `mapstructure:"insecure" yaml:"insecure"`
	SampleRate float64         `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`
	Profiling  ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling of the
// allocator hot path.
type ProfilingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string   `mapstructure:"endpoint" yaml:"endpoint"`
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types,omitempty"`
}

// AuditConfig configures the periodic checkpoint export to S3.
type AuditConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Bucket   string        `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix,omitempty"`
	Region   string        `mapstructure:"region" yaml:"region,omitempty"`
	Interval time.Duration `mapstructure:"interval" yaml:"interval,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// Load loads configuration from file, environment, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration, producing a user-friendly error if the
// config file is missing.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  sequencercli init\n\n"+
				"Or specify a custom config file:\n"+
				"  sequencercli <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file:\n"+
			"  sequencercli init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path in YAML, creating parent directories as
// needed. File permissions are restricted since the lease store and
// admin JWT secret may both be sensitive.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("SEQUENCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// durationDecodeHook converts YAML duration strings ("30s", "5m") to
// time.Duration during mapstructure decoding.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sequencer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "sequencer")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the
// default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for the
// CLI's init command).
func GetConfigDir() string {
	return getConfigDir()
}

// initialTokenSentinel re-exports sequencer.InitialTokenSentinel so this
// package doesn't need to import math for one constant.
const initialTokenSentinel = sequencer.InitialTokenSentinel
