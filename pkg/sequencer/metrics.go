package sequencer

import "time"

// Metrics is the optional observability hook the Allocator reports into.
// A nil Metrics results in zero overhead, mirroring the reference corpus's
// optional-metrics-collector pattern for its cache layer.
type Metrics interface {
	ObserveGrant(kind string, duration time.Duration)
	ObserveAbort()
	ObserveRenewal()
	ObserveLeaseExhausted()
	RecordCacheSize(size, capacity int)
	RecordCacheEviction()
	RecordGlobalTail(tail int64)
}

func observeGrant(m Metrics, kind string, d time.Duration) {
	if m != nil {
		m.ObserveGrant(kind, d)
	}
}

func observeAbort(m Metrics) {
	if m != nil {
		m.ObserveAbort()
	}
}

func observeRenewal(m Metrics) {
	if m != nil {
		m.ObserveRenewal()
	}
}

func observeLeaseExhausted(m Metrics) {
	if m != nil {
		m.ObserveLeaseExhausted()
	}
}

func recordCacheSize(m Metrics, size, capacity int) {
	if m != nil {
		m.RecordCacheSize(size, capacity)
	}
}

func recordCacheEviction(m Metrics) {
	if m != nil {
		m.RecordCacheEviction()
	}
}

func recordGlobalTail(m Metrics, tail int64) {
	if m != nil {
		m.RecordGlobalTail(tail)
	}
}
