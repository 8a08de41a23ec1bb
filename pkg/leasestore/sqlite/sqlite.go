// Package sqlite implements leasestore.Store over a single-row table in a
// pure-Go (no cgo) SQLite file, for single-node deployments that want
// file-backed persistence without embedding Badger.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// leaseRow is the single persisted row. ID is always 1.
type leaseRow struct {
	ID       int   `gorm:"primaryKey;column:id"`
	Position int64 `gorm:"column:position"`
}

func (leaseRow) TableName() string {
	return "sequencer_lease"
}

// Store persists the lease boundary in a single SQLite row.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) a SQLite database at path and returns a Store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lease store directory: %w", err)
	}

	// WAL journal mode permits concurrent readers alongside the single
	// writer; busy_timeout avoids immediate failure under lock contention.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open lease store: %w", err)
	}

	if err := db.AutoMigrate(&leaseRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate lease store schema: %w", err)
	}

	return &Store{db: db}, nil
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

	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
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
