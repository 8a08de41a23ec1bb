package metrics

import "github.com/marmos91/sequencer/pkg/sequencer"

// NewSequencerMetrics creates a new Prometheus-backed sequencer.Metrics
// instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called). When
// nil is returned, callers should pass nil to Allocator.SetMetrics,
// which results in zero overhead on the allocator's hot path.
func NewSequencerMetrics() sequencer.Metrics {
	if !IsEnabled() {
		return nil
	}
	return newPrometheusSequencerMetrics()
}

// newPrometheusSequencerMetrics is implemented in
// pkg/metrics/prometheus/sequencer.go. This indirection avoids an import
// cycle (pkg/sequencer cannot import pkg/metrics/prometheus, which in
// turn would need to import pkg/sequencer for the Metrics interface)
// while keeping the constructor API in one place.
var newPrometheusSequencerMetrics func() sequencer.Metrics

// RegisterSequencerMetricsConstructor registers the Prometheus sequencer
// metrics constructor. Called by pkg/metrics/prometheus's package
// initialization.
func RegisterSequencerMetricsConstructor(constructor func() sequencer.Metrics) {
	newPrometheusSequencerMetrics = constructor
}
