package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/marmos91/sequencer/pkg/metrics"
	"github.com/marmos91/sequencer/pkg/sequencer"
)

func init() {
	metrics.RegisterSequencerMetricsConstructor(func() sequencer.Metrics {
		return newSequencerMetrics()
	})
}

// sequencerMetrics is the Prometheus implementation of sequencer.Metrics.
type sequencerMetrics struct {
	grants             *prometheus.CounterVec
	grantDuration      *prometheus.HistogramVec
	aborts             prometheus.Counter
	renewals           prometheus.Counter
	leaseExhausted     prometheus.Counter
	conflictCacheSize  prometheus.Gauge
	conflictCacheCap   prometheus.Gauge
	conflictCacheEvict prometheus.Counter
	globalTail         prometheus.Gauge
}

// newSequencerMetrics creates a new Prometheus-backed sequencer.Metrics
// instance, registering its collectors against metrics.GetRegistry().
func newSequencerMetrics() sequencer.Metrics {
	reg := metrics.GetRegistry()

	return &sequencerMetrics{
		grants: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sequencer_grants_total",
				Help: "Total number of token grants by kind",
			},
			[]string{"kind"}, // "non_stream", "stream", "txn"
		),
		grantDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sequencer_allocator_handle_duration_seconds",
				Help: "Duration of Allocator.Handle calls by grant kind",
				Buckets: []float64{
					0.00001, // 10us
					0.0001,  // 100us
					0.0005,  // 500us
					0.001,   // 1ms
					0.005,   // 5ms
					0.01,    // 10ms
					0.05,    // 50ms
					0.1,     // 100ms
				},
			},
			[]string{"kind"},
		),
		aborts: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "sequencer_txn_aborts_total",
				Help: "Total number of transaction commits aborted by conflict resolution",
			},
		),
		renewals: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "sequencer_lease_renewals_total",
				Help: "Total number of lease renewals persisted to the lease store",
			},
		),
		leaseExhausted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "sequencer_lease_exhausted_total",
				Help: "Total number of requests rejected because the lease boundary could not be renewed in time",
			},
		),
		conflictCacheSize: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "sequencer_conflict_cache_size",
				Help: "Current number of entries in the conflict cache",
			},
		),
		conflictCacheCap: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "sequencer_conflict_cache_capacity",
				Help: "Configured capacity of the conflict cache",
			},
		),
		conflictCacheEvict: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "sequencer_conflict_cache_evictions_total",
				Help: "Total number of conflict cache entries evicted to stay within capacity",
			},
		),
		globalTail: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "sequencer_global_tail",
				Help: "Current global tail position",
			},
		),
	}
}

func (m *sequencerMetrics) ObserveGrant(kind string, duration time.Duration) {
	m.grants.WithLabelValues(kind).Inc()
	m.grantDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (m *sequencerMetrics) ObserveAbort() {
	m.aborts.Inc()
}

func (m *sequencerMetrics) ObserveRenewal() {
	m.renewals.Inc()
}

func (m *sequencerMetrics) ObserveLeaseExhausted() {
	m.leaseExhausted.Inc()
}

func (m *sequencerMetrics) RecordCacheSize(size, capacity int) {
	m.conflictCacheSize.Set(float64(size))
	m.conflictCacheCap.Set(float64(capacity))
}

func (m *sequencerMetrics) RecordCacheEviction() {
	m.conflictCacheEvict.Inc()
}

func (m *sequencerMetrics) RecordGlobalTail(tail int64) {
	m.globalTail.Set(float64(tail))
}
