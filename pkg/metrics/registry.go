// Package metrics provides an optional Prometheus-backed metrics facade
// for the Sequencer. It exists mainly to break the import cycle between
// pkg/sequencer (which defines the Metrics interface it accepts) and
// pkg/metrics/prometheus (which implements that interface): callers
// depend on this package's constructor, not on the implementation
// package directly.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu       sync.Mutex
	registry *prometheus.Registry
	enabled  bool
)

// InitRegistry enables metrics collection, creating the underlying
// Prometheus registry on first call. Idempotent.
func InitRegistry() {
	mu.Lock()
	defer mu.Unlock()
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	enabled = true
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// GetRegistry returns the shared Prometheus registry, creating it if
// necessary.
func GetRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return registry
}
