package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for sequencer operations.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Client/request attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"
	AttrRequestID  = "request.id"
	AttrMethod     = "http.method"
	AttrPath       = "http.path"
	AttrStatus     = "http.status_code"

	// ========================================================================
	// Token allocation attributes
	// ========================================================================
	AttrNumTokens       = "sequencer.num_tokens"
	AttrToken           = "sequencer.token"
	AttrGlobalTail      = "sequencer.global_tail"
	AttrLeaseBoundary   = "sequencer.lease_boundary"
	AttrStreamCount     = "sequencer.stream_count"
	AttrTxn             = "sequencer.txn"
	AttrReadTimestamp   = "sequencer.read_timestamp"
	AttrAborted         = "sequencer.aborted"
	AttrOverwrite       = "sequencer.overwrite"
	AttrReplexOverwrite = "sequencer.replex_overwrite"

	// ========================================================================
	// Lease management attributes
	// ========================================================================
	AttrLeaseLength        = "lease.length"
	AttrLeaseRenewalNotice = "lease.renewal_notice"
	AttrLeaseStoreBackend  = "lease.store_backend"

	// ========================================================================
	// Conflict cache attributes
	// ========================================================================
	AttrCacheHit      = "cache.hit"
	AttrCacheSize     = "cache.size"
	AttrCacheCapacity = "cache.capacity"
	AttrEvicted       = "cache.evicted"

	// ========================================================================
	// Storage backend attributes (audit export)
	// ========================================================================
	AttrBucket = "storage.bucket"
	AttrKey    = "storage.key"
	AttrRegion = "storage.region"
)

// Span names for operations.
const (
	SpanAllocatorHandle   = "allocator.handle"
	SpanAllocatorQuery    = "allocator.query"
	SpanAllocatorTxn      = "allocator.txn"
	SpanLeaseRenew        = "lease.renew"
	SpanLeaseRead         = "lease.read"
	SpanLeaseWrite        = "lease.write"
	SpanConflictCacheScan = "cache.scan"
	SpanAuditExport       = "audit.export"
)

// ClientIP returns an attribute for client IP address.
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address.
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// RequestID returns an attribute for the transport-assigned request id.
func RequestID(id string) attribute.KeyValue {
	return attribute.String(AttrRequestID, id)
}

// NumTokens returns an attribute for a requested/issued token count.
func NumTokens(n uint32) attribute.KeyValue {
	return attribute.Int64(AttrNumTokens, int64(n))
}

// Token returns an attribute for the base of an issued range.
func Token(t int64) attribute.KeyValue {
	return attribute.Int64(AttrToken, t)
}

// GlobalTail returns an attribute for the current global tail T.
func GlobalTail(t int64) attribute.KeyValue {
	return attribute.Int64(AttrGlobalTail, t)
}

// LeaseBoundary returns an attribute for the current lease boundary L.
func LeaseBoundary(l int64) attribute.KeyValue {
	return attribute.Int64(AttrLeaseBoundary, l)
}

// StreamCount returns an attribute for the number of streams in a request.
func StreamCount(n int) attribute.KeyValue {
	return attribute.Int(AttrStreamCount, n)
}

// Txn returns an attribute for the transaction-resolution flag.
func Txn(txn bool) attribute.KeyValue {
	return attribute.Bool(AttrTxn, txn)
}

// ReadTimestamp returns an attribute for a transaction's snapshot position.
func ReadTimestamp(ts int64) attribute.KeyValue {
	return attribute.Int64(AttrReadTimestamp, ts)
}

// Aborted returns an attribute for whether a transaction aborted.
func Aborted(aborted bool) attribute.KeyValue {
	return attribute.Bool(AttrAborted, aborted)
}

// Overwrite returns an attribute for the overwrite flag.
func Overwrite(v bool) attribute.KeyValue {
	return attribute.Bool(AttrOverwrite, v)
}

// ReplexOverwrite returns an attribute for the replexOverwrite flag.
func ReplexOverwrite(v bool) attribute.KeyValue {
	return attribute.Bool(AttrReplexOverwrite, v)
}

// LeaseLength returns an attribute for the configured lease length.
func LeaseLength(n int64) attribute.KeyValue {
	return attribute.Int64(AttrLeaseLength, n)
}

// LeaseRenewalNotice returns an attribute for the configured renewal notice.
func LeaseRenewalNotice(n int64) attribute.KeyValue {
	return attribute.Int64(AttrLeaseRenewalNotice, n)
}

// LeaseStoreBackend returns an attribute for the selected lease-store backend.
func LeaseStoreBackend(name string) attribute.KeyValue {
	return attribute.String(AttrLeaseStoreBackend, name)
}

// CacheHit returns an attribute for a conflict-cache hit indicator.
func CacheHit(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// CacheSize returns an attribute for current cache occupancy.
func CacheSize(n int) attribute.KeyValue {
	return attribute.Int(AttrCacheSize, n)
}

// CacheCapacity returns an attribute for maximum cache capacity.
func CacheCapacity(n int) attribute.KeyValue {
	return attribute.Int(AttrCacheCapacity, n)
}

// Evicted returns an attribute for the number of entries evicted.
func Evicted(n int) attribute.KeyValue {
	return attribute.Int(AttrEvicted, n)
}

// Bucket returns an attribute for the S3 bucket name used by audit export.
func Bucket(name string) attribute.KeyValue {
	return attribute.String(AttrBucket, name)
}

// StorageKey returns an attribute for an S3 object key.
func StorageKey(key string) attribute.KeyValue {
	return attribute.String(AttrKey, key)
}

// Region returns an attribute for a cloud region.
func Region(region string) attribute.KeyValue {
	return attribute.String(AttrRegion, region)
}

// Method returns an attribute for an HTTP method.
func Method(m string) attribute.KeyValue {
	return attribute.String(AttrMethod, m)
}

// Path returns an attribute for an HTTP path.
func Path(p string) attribute.KeyValue {
	return attribute.String(AttrPath, p)
}

// Status returns an attribute for an HTTP status code.
func Status(code int) attribute.KeyValue {
	return attribute.Int(AttrStatus, code)
}

// StartAllocatorSpan starts a span around the allocator's critical section.
func StartAllocatorSpan(ctx context.Context, kind string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{}, attrs...)
	return StartSpan(ctx, "allocator."+kind, trace.WithAttributes(allAttrs...))
}

// StartLeaseSpan starts a span for a lease-store operation.
func StartLeaseSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "lease."+operation, trace.WithAttributes(attrs...))
}

// StartCacheSpan starts a span for a conflict-cache operation.
func StartCacheSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "cache."+operation, trace.WithAttributes(attrs...))
}

// StartAuditSpan starts a span for an audit/checkpoint export operation.
func StartAuditSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "audit."+operation, trace.WithAttributes(attrs...))
}
