// Package leasestore defines the Persistent Lease Store Adapter (spec §4.1):
// a thin wrapper over a durable key-value store exposing a read/write pair
// for the single integer that bounds the Sequencer's lease. Backends are
// pluggable; the lease manager is agnostic to which one is configured.
package leasestore

import "context"

// LeaseKey is the fixed key under which the lease boundary is persisted,
// per spec §6: ("SEQUENCER", "CURRENT") -> int64.
const LeaseKey = "SEQUENCER/CURRENT"

// Store is the Persistent Lease Store Adapter interface from spec §4.1.
// Implementations perform a direct round-trip on every call; no caching.
type Store interface {
	// ReadLease returns the last durably written lease start, and false if
	// this is the first boot (no value has ever been written).
	ReadLease(ctx context.Context) (pos int64, found bool, err error)

	// WriteLease durably persists pos as the new lease start. It must not
	// return until the write is durable.
	WriteLease(ctx context.Context, pos int64) error

	// Close releases any resources held by the backend.
	Close() error
}
