package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "sequencer", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// Should be able to call shutdown without error
	err = shutdown(ctx)
	assert.NoError(t, err)

	// Should not be enabled
	assert.False(t, IsEnabled())
}

func TestTracerReturnsNoOp(t *testing.T) {
	// Reset state
	tracer = nil
	enabled = false

	// Without initialization, should return no-op tracer
	tr := Tracer()
	require.NotNil(t, tr)
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()

	// Even without initialization, StartSpan should work (no-op)
	newCtx, span := StartSpan(ctx, "test.operation")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)

	// Should be able to end the span
	span.End()
}

func TestSpanFromContext(t *testing.T) {
	ctx := context.Background()

	// Should return a span even without active span
	span := SpanFromContext(ctx)
	require.NotNil(t, span)
}

func TestAddEvent(t *testing.T) {
	ctx := context.Background()

	// Should not panic with no active span
	require.NotPanics(t, func() {
		AddEvent(ctx, "test.event")
	})
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()

	// Should not panic with nil error
	require.NotPanics(t, func() {
		RecordError(ctx, nil)
	})

	// Should not panic with error
	require.NotPanics(t, func() {
		RecordError(ctx, errors.New("test error"))
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Ok, "success")
	})

	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Error, "failed")
	})
}

func TestSetAttributes(t *testing.T) {
	ctx := context.Background()

	// Should not panic
	require.NotPanics(t, func() {
		SetAttributes(ctx, ClientIP("192.168.1.1"))
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	traceID := TraceID(ctx)
	assert.Equal(t, "", traceID)
}

func TestSpanID(t *testing.T) {
	ctx := context.Background()

	// Without active span, should return empty string
	spanID := SpanID(ctx)
	assert.Equal(t, "", spanID)
}

func TestAttributeHelpers(t *testing.T) {
	t.Run("ClientIP", func(t *testing.T) {
		attr := ClientIP("192.168.1.100")
		assert.Equal(t, AttrClientIP, string(attr.Key))
		assert.Equal(t, "192.168.1.100", attr.Value.AsString())
	})

	t.Run("ClientAddr", func(t *testing.T) {
		attr := ClientAddr("192.168.1.100:12345")
		assert.Equal(t, AttrClientAddr, string(attr.Key))
		assert.Equal(t, "192.168.1.100:12345", attr.Value.AsString())
	})

	t.Run("RequestID", func(t *testing.T) {
		attr := RequestID("req-42")
		assert.Equal(t, AttrRequestID, string(attr.Key))
		assert.Equal(t, "req-42", attr.Value.AsString())
	})

	t.Run("NumTokens", func(t *testing.T) {
		attr := NumTokens(8)
		assert.Equal(t, AttrNumTokens, string(attr.Key))
		assert.Equal(t, int64(8), attr.Value.AsInt64())
	})

	t.Run("Token", func(t *testing.T) {
		attr := Token(42)
		assert.Equal(t, AttrToken, string(attr.Key))
		assert.Equal(t, int64(42), attr.Value.AsInt64())
	})

	t.Run("GlobalTail", func(t *testing.T) {
		attr := GlobalTail(100)
		assert.Equal(t, AttrGlobalTail, string(attr.Key))
		assert.Equal(t, int64(100), attr.Value.AsInt64())
	})

	t.Run("LeaseBoundary", func(t *testing.T) {
		attr := LeaseBoundary(100000)
		assert.Equal(t, AttrLeaseBoundary, string(attr.Key))
		assert.Equal(t, int64(100000), attr.Value.AsInt64())
	})

	t.Run("StreamCount", func(t *testing.T) {
		attr := StreamCount(3)
		assert.Equal(t, AttrStreamCount, string(attr.Key))
		assert.Equal(t, int64(3), attr.Value.AsInt64())
	})

	t.Run("Txn", func(t *testing.T) {
		attr := Txn(true)
		assert.Equal(t, AttrTxn, string(attr.Key))
		assert.True(t, attr.Value.AsBool())
	})

	t.Run("ReadTimestamp", func(t *testing.T) {
		attr := ReadTimestamp(50)
		assert.Equal(t, AttrReadTimestamp, string(attr.Key))
		assert.Equal(t, int64(50), attr.Value.AsInt64())
	})

	t.Run("Aborted", func(t *testing.T) {
		attr := Aborted(true)
		assert.Equal(t, AttrAborted, string(attr.Key))
		assert.True(t, attr.Value.AsBool())
	})

	t.Run("Overwrite", func(t *testing.T) {
		attr := Overwrite(true)
		assert.Equal(t, AttrOverwrite, string(attr.Key))
		assert.True(t, attr.Value.AsBool())
	})

	t.Run("ReplexOverwrite", func(t *testing.T) {
		attr := ReplexOverwrite(false)
		assert.Equal(t, AttrReplexOverwrite, string(attr.Key))
		assert.False(t, attr.Value.AsBool())
	})

	t.Run("LeaseLength", func(t *testing.T) {
		attr := LeaseLength(100000)
		assert.Equal(t, AttrLeaseLength, string(attr.Key))
		assert.Equal(t, int64(100000), attr.Value.AsInt64())
	})

	t.Run("LeaseRenewalNotice", func(t *testing.T) {
		attr := LeaseRenewalNotice(10000)
		assert.Equal(t, AttrLeaseRenewalNotice, string(attr.Key))
		assert.Equal(t, int64(10000), attr.Value.AsInt64())
	})

	t.Run("LeaseStoreBackend", func(t *testing.T) {
		attr := LeaseStoreBackend("badger")
		assert.Equal(t, AttrLeaseStoreBackend, string(attr.Key))
		assert.Equal(t, "badger", attr.Value.AsString())
	})

	t.Run("CacheHit", func(t *testing.T) {
		attr := CacheHit(true)
		assert.Equal(t, AttrCacheHit, string(attr.Key))
		assert.True(t, attr.Value.AsBool())
	})

	t.Run("CacheSize", func(t *testing.T) {
		attr := CacheSize(128)
		assert.Equal(t, AttrCacheSize, string(attr.Key))
		assert.Equal(t, int64(128), attr.Value.AsInt64())
	})

	t.Run("CacheCapacity", func(t *testing.T) {
		attr := CacheCapacity(10000)
		assert.Equal(t, AttrCacheCapacity, string(attr.Key))
		assert.Equal(t, int64(10000), attr.Value.AsInt64())
	})

	t.Run("Evicted", func(t *testing.T) {
		attr := Evicted(3)
		assert.Equal(t, AttrEvicted, string(attr.Key))
		assert.Equal(t, int64(3), attr.Value.AsInt64())
	})

	t.Run("Method", func(t *testing.T) {
		attr := Method("POST")
		assert.Equal(t, AttrMethod, string(attr.Key))
		assert.Equal(t, "POST", attr.Value.AsString())
	})

	t.Run("Path", func(t *testing.T) {
		attr := Path("/v1/tokens")
		assert.Equal(t, AttrPath, string(attr.Key))
		assert.Equal(t, "/v1/tokens", attr.Value.AsString())
	})

	t.Run("Status", func(t *testing.T) {
		attr := Status(200)
		assert.Equal(t, AttrStatus, string(attr.Key))
		assert.Equal(t, int64(200), attr.Value.AsInt64())
	})

	t.Run("Bucket", func(t *testing.T) {
		attr := Bucket("my-bucket")
		assert.Equal(t, AttrBucket, string(attr.Key))
		assert.Equal(t, "my-bucket", attr.Value.AsString())
	})

	t.Run("StorageKey", func(t *testing.T) {
		attr := StorageKey("path/to/object")
		assert.Equal(t, AttrKey, string(attr.Key))
		assert.Equal(t, "path/to/object", attr.Value.AsString())
	})
}

func TestStartAllocatorSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartAllocatorSpan(ctx, "handle", NumTokens(1), Txn(false))
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	// With no additional attributes
	newCtx2, span2 := StartAllocatorSpan(ctx, "query")
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()

	// Transaction path
	newCtx3, span3 := StartAllocatorSpan(ctx, "txn", Txn(true), Aborted(false), StreamCount(2))
	require.NotNil(t, newCtx3)
	require.NotNil(t, span3)
	span3.End()
}

func TestStartLeaseSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartLeaseSpan(ctx, "read")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	// With additional attributes
	newCtx2, span2 := StartLeaseSpan(ctx, "renew", LeaseBoundary(200000), LeaseStoreBackend("badger"))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}

func TestStartAuditSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartAuditSpan(ctx, "export", Bucket("sequencer-audit"))
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()
}

func TestStartCacheSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartCacheSpan(ctx, "lookup")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	// With additional attributes
	newCtx2, span2 := StartCacheSpan(ctx, "write", CacheHit(false))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}
