package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks cfg against its struct validation tags and the handful
// of cross-field rules the tags can't express (lease renewal notice must
// be less than the lease length, admin secret length, lease store backend
// selection).
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Sequencer.LeaseRenewalNotice >= cfg.Sequencer.LeaseLength {
		return fmt.Errorf("sequencer.lease_renewal_notice (%d) must be less than sequencer.lease_length (%d)",
			cfg.Sequencer.LeaseRenewalNotice, cfg.Sequencer.LeaseLength)
	}

	if secret := cfg.Transport.AdminSecret(); len(secret) < 32 {
		return fmt.Errorf("transport.admin.secret (or %s) must be at least 32 characters, got %d",
			"SEQUENCER_ADMIN_SECRET", len(secret))
	}

	switch cfg.LeaseStore.Type {
	case LeaseStoreBadger:
		if cfg.LeaseStore.BadgerPath == "" {
			return fmt.Errorf("lease_store.badger_path is required when lease_store.type is \"badger\"")
		}
	case LeaseStoreSQLite:
		if cfg.LeaseStore.SQLitePath == "" {
			return fmt.Errorf("lease_store.sqlite_path is required when lease_store.type is \"sqlite\"")
		}
	case LeaseStorePostgres:
		if cfg.LeaseStore.Postgres.Host == "" || cfg.LeaseStore.Postgres.Database == "" {
			return fmt.Errorf("lease_store.postgres.host and lease_store.postgres.database are required when lease_store.type is \"postgres\"")
		}
	case LeaseStoreMemory:
		// No configuration required; data does not survive a restart.
	}

	if cfg.Audit.Enabled && cfg.Audit.Bucket == "" {
		return fmt.Errorf("audit.bucket is required when audit.enabled is true")
	}

	return nil
}
