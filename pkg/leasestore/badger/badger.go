// Package badger implements leasestore.Store over a single embedded
// dgraph-io/badger/v4 database, storing the lease boundary under one fixed
// key. This is the default backend: embedded, zero external dependency.
package badger

import (
	"context"
	"encoding/binary"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/sequencer/pkg/leasestore"
)

// Store persists the lease boundary in a Badger database.
type Store struct {
	db *badgerdb.DB
}

// Open opens (or creates) a Badger database at path and returns a Store.
func Open(path string) (*Store, error) {
	opts := badgerdb.DefaultOptions(path).WithLogger(nil)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open lease store: %w", err)
	}

	return &Store{db: db}, nil
}

func leaseKeyBytes() []byte {
	return []byte(leasestore.LeaseKey)
}

// ReadLease implements leasestore.Store.
func (s *Store) ReadLease(ctx context.Context) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	var (
		pos   int64
		found bool
	)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(leaseKeyBytes())
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("lease value has unexpected length %d", len(val))
			}
			pos = int64(binary.BigEndian.Uint64(val))
			return nil
		})
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to read lease: %w", err)
	}

	return pos, found, nil
}

// WriteLease implements leasestore.Store.
func (s *Store) WriteLease(ctx context.Context, pos int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(pos))

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(leaseKeyBytes(), val)
	})
	if err != nil {
		return fmt.Errorf("failed to write lease: %w", err)
	}

	// Badger's Update commits synchronously by default, but force a sync
	// of the value log so the write survives a crash immediately after
	// this call returns, matching the "must not return until durable"
	// contract in spec §4.1.
	if err := s.db.Sync(); err != nil {
		return fmt.Errorf("failed to sync lease write: %w", err)
	}

	return nil
}

// Close implements leasestore.Store.
func (s *Store) Close() error {
	return s.db.Close()
}
