package badger_test

import (
	"path/filepath"
	"testing"

	"github.com/marmos91/sequencer/pkg/leasestore"
	"github.com/marmos91/sequencer/pkg/leasestore/badger"
	"github.com/marmos91/sequencer/pkg/leasestore/leasestoretest"
)

func TestConformance(t *testing.T) {
	leasestoretest.RunConformanceSuite(t, func(t *testing.T) leasestore.Store {
		dbPath := filepath.Join(t.TempDir(), "lease")
		store, err := badger.Open(dbPath)
		if err != nil {
			t.Fatalf("Open() failed: %v", err)
		}
		t.Cleanup(func() {
			store.Close()
		})
		return store
	})
}
