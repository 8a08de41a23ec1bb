//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marmos91/sequencer/pkg/leasestore"
	"github.com/marmos91/sequencer/pkg/leasestore/leasestoretest"
	"github.com/marmos91/sequencer/pkg/leasestore/postgres"
)

func TestConformance(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("sequencer_test"),
		tcpostgres.WithUsername("sequencer_test"),
		tcpostgres.WithPassword("sequencer_test"),
		tcpostgres.BasicWaitStrategies(),
		tcpostgres.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	leasestoretest.RunConformanceSuite(t, func(t *testing.T) leasestore.Store {
		store, err := postgres.Open(postgres.Config{
			Host:     host,
			Port:     port.Int(),
			Database: "sequencer_test",
			User:     "sequencer_test",
			Password: "sequencer_test",
		})
		if err != nil {
			t.Fatalf("Open() failed: %v", err)
		}
		t.Cleanup(func() {
			store.Close()
		})
		return store
	})
}
