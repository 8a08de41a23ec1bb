// Package leasestoretest provides a shared conformance suite run against
// every leasestore.Store backend, mirroring the reference corpus's
// per-backend conformance-test pattern for metadata stores.
package leasestoretest

import (
	"context"
	"testing"

	"github.com/marmos91/sequencer/pkg/leasestore"
)

// Factory constructs a fresh, empty Store for a single test.
type Factory func(t *testing.T) leasestore.Store

// RunConformanceSuite exercises the leasestore.Store contract against a
// backend produced by factory. All backends must pass this suite.
func RunConformanceSuite(t *testing.T, factory Factory) {
	t.Run("FreshStoreHasNoLease", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		_, found, err := store.ReadLease(context.Background())
		if err != nil {
			t.Fatalf("ReadLease() failed: %v", err)
		}
		if found {
			t.Fatalf("ReadLease() on fresh store reported found=true")
		}
	})

	t.Run("WriteThenReadRoundTrips", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		if err := store.WriteLease(context.Background(), 100000); err != nil {
			t.Fatalf("WriteLease() failed: %v", err)
		}

		pos, found, err := store.ReadLease(context.Background())
		if err != nil {
			t.Fatalf("ReadLease() failed: %v", err)
		}
		if !found {
			t.Fatalf("ReadLease() reported found=false after a write")
		}
		if pos != 100000 {
			t.Fatalf("ReadLease() = %d, want 100000", pos)
		}
	})

	t.Run("SubsequentWritesOverwrite", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		ctx := context.Background()
		if err := store.WriteLease(ctx, 0); err != nil {
			t.Fatalf("WriteLease(0) failed: %v", err)
		}
		if err := store.WriteLease(ctx, 100000); err != nil {
			t.Fatalf("WriteLease(100000) failed: %v", err)
		}
		if err := store.WriteLease(ctx, 200000); err != nil {
			t.Fatalf("WriteLease(200000) failed: %v", err)
		}

		pos, found, err := store.ReadLease(ctx)
		if err != nil {
			t.Fatalf("ReadLease() failed: %v", err)
		}
		if !found || pos != 200000 {
			t.Fatalf("ReadLease() = (%d, %v), want (200000, true)", pos, found)
		}
	})

	t.Run("ZeroIsADistinctPersistedValue", func(t *testing.T) {
		store := factory(t)
		defer store.Close()

		ctx := context.Background()
		if err := store.WriteLease(ctx, 0); err != nil {
			t.Fatalf("WriteLease(0) failed: %v", err)
		}

		pos, found, err := store.ReadLease(ctx)
		if err != nil {
			t.Fatalf("ReadLease() failed: %v", err)
		}
		if !found {
			t.Fatalf("ReadLease() reported found=false after writing 0 — zero must not be confused with absence")
		}
		if pos != 0 {
			t.Fatalf("ReadLease() = %d, want 0", pos)
		}
	})
}
