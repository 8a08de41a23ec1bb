// Package postgres implements leasestore.Store over a single-row PostgreSQL
// table, for operators who already run Postgres for other cluster metadata
// and want the lease co-located with it. Schema management is handled by
// golang-migrate rather than GORM's AutoMigrate, since the schema here is
// small and fixed and benefits from explicit, reviewable migrations.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config contains PostgreSQL connection configuration for the lease store.
type Config struct {
	Host         string
	Port         int
	Database     string
	User         string
	Password     string
	SSLMode      string // disable, require, verify-ca, verify-full
	MaxOpenConns int
	MaxIdleConns int
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 2
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
	return dsn
}

// leaseRow is the single persisted row. ID is always 1.
type leaseRow struct {
	ID       int   `gorm:"primaryKey;column:id"`
	Position int64 `gorm:"column:position"`
}

func (leaseRow) TableName() string {
	return "sequencer_lease"
}

// Store persists the lease boundary in a single PostgreSQL row.
type Store struct {
	db *gorm.DB
}

// Open connects to PostgreSQL, runs pending migrations, and returns a Store.
func Open(cfg Config) (*Store, error) {
	cfg.ApplyDefaults()

	if err := runMigrations(cfg); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to lease store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	return &Store{db: db}, nil
}

func runMigrations(cfg Config) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load lease store migrations: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode)

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize lease store migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate lease store schema: %w", err)
	}

	return nil
}

// ReadLease implements leasestore.Store.
func (s *Store) ReadLease(ctx context.Context) (int64, bool, error) {
	var row leaseRow

	err := s.db.WithContext(ctx).First(&row, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read lease: %w", err)
	}

	return row.Position, true, nil
}

// WriteLease implements leasestore.Store.
func (s *Store) WriteLease(ctx context.Context, pos int64) error {
	row := leaseRow{ID: 1, Position: pos}

	err := s.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write lease: %w", err)
	}

	return nil
}

// Close implements leasestore.Store.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
