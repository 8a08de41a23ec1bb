package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log
// aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Request Identification
	// ========================================================================
	KeyRequestID = "request_id" // Transport-assigned request identifier
	KeyClientIP  = "client_ip"  // Caller's remote address
	KeyMethod    = "method"     // HTTP method
	KeyPath      = "path"       // HTTP path

	// ========================================================================
	// Token Allocation
	// ========================================================================
	KeyNumTokens       = "num_tokens"       // Requested/issued token count
	KeyToken           = "token"            // Base position of an issued range
	KeyGlobalTail      = "global_tail"      // Current value of T
	KeyLeaseBoundary   = "lease_boundary"   // Current value of L
	KeyStreamCount     = "stream_count"     // Number of streams touched by a request
	KeyTxn             = "txn"              // Whether the request is a transaction commit
	KeyReadTimestamp   = "read_timestamp"   // Transaction snapshot position
	KeyAborted         = "aborted"          // Whether a transaction aborted
	KeyOverwrite       = "overwrite"        // overwrite flag
	KeyReplexOverwrite = "replex_overwrite" // replexOverwrite flag

	// ========================================================================
	// Lease Management
	// ========================================================================
	KeyLeaseLength        = "lease_length"
	KeyLeaseRenewalNotice = "lease_renewal_notice"
	KeyLeaseStoreBackend  = "lease_store_backend"

	// ========================================================================
	// Conflict Cache
	// ========================================================================
	KeyCacheSize     = "cache_size"     // Current cache occupancy
	KeyCacheCapacity = "cache_capacity" // Maximum cache capacity
	KeyEvicted       = "evicted"        // Number of entries evicted

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Numeric error code
	KeyStatus     = "status"      // HTTP status code
)

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// TraceID returns a slog.Attr for the OpenTelemetry trace ID.
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for the OpenTelemetry span ID.
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// RequestID returns a slog.Attr for the transport-assigned request id.
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// ClientIP returns a slog.Attr for the caller's remote address.
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Method returns a slog.Attr for an HTTP method.
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Path returns a slog.Attr for an HTTP path.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Status returns a slog.Attr for an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// NumTokens returns a slog.Attr for a requested/issued token count.
func NumTokens(n uint32) slog.Attr {
	return slog.Uint64(KeyNumTokens, uint64(n))
}

// Token returns a slog.Attr for the base of an issued range (-1 on abort).
func Token(t int64) slog.Attr {
	return slog.Int64(KeyToken, t)
}

// GlobalTail returns a slog.Attr for the current global tail T.
func GlobalTail(t int64) slog.Attr {
	return slog.Int64(KeyGlobalTail, t)
}

// LeaseBoundary returns a slog.Attr for the current lease boundary L.
func LeaseBoundary(l int64) slog.Attr {
	return slog.Int64(KeyLeaseBoundary, l)
}

// StreamCount returns a slog.Attr for the number of streams in a request.
func StreamCount(n int) slog.Attr {
	return slog.Int(KeyStreamCount, n)
}

// Txn returns a slog.Attr for the transaction-resolution flag.
func Txn(txn bool) slog.Attr {
	return slog.Bool(KeyTxn, txn)
}

// ReadTimestamp returns a slog.Attr for a transaction's snapshot position.
func ReadTimestamp(ts int64) slog.Attr {
	return slog.Int64(KeyReadTimestamp, ts)
}

// Aborted returns a slog.Attr for whether a transaction aborted.
func Aborted(aborted bool) slog.Attr {
	return slog.Bool(KeyAborted, aborted)
}

// Overwrite returns a slog.Attr for the overwrite flag.
func Overwrite(v bool) slog.Attr {
	return slog.Bool(KeyOverwrite, v)
}

// ReplexOverwrite returns a slog.Attr for the replexOverwrite flag.
func ReplexOverwrite(v bool) slog.Attr {
	return slog.Bool(KeyReplexOverwrite, v)
}

// LeaseLength returns a slog.Attr for the configured lease length.
func LeaseLength(n int64) slog.Attr {
	return slog.Int64(KeyLeaseLength, n)
}

// LeaseRenewalNotice returns a slog.Attr for the configured renewal notice.
func LeaseRenewalNotice(n int64) slog.Attr {
	return slog.Int64(KeyLeaseRenewalNotice, n)
}

// LeaseStoreBackend returns a slog.Attr for the selected lease-store backend.
func LeaseStoreBackend(name string) slog.Attr {
	return slog.String(KeyLeaseStoreBackend, name)
}

// CacheSize returns a slog.Attr for current cache occupancy.
func CacheSize(n int) slog.Attr {
	return slog.Int(KeyCacheSize, n)
}

// CacheCapacity returns a slog.Attr for maximum cache capacity.
func CacheCapacity(n int) slog.Attr {
	return slog.Int(KeyCacheCapacity, n)
}

// Evicted returns a slog.Attr for number of entries evicted.
func Evicted(n int) slog.Attr {
	return slog.Int(KeyEvicted, n)
}

// DurationMs returns a slog.Attr for a duration in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for a numeric error code.
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}
