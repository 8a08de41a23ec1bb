package sequencer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/sequencer/internal/logger"
	"github.com/marmos91/sequencer/internal/telemetry"
)

// AllocatorConfig configures an Allocator.
type AllocatorConfig struct {
	LeaseManagerConfig

	// ConflictCacheCapacity bounds the number of conflict keys retained for
	// transaction-commit resolution (spec §4.3). Default 10_000.
	ConflictCacheCapacity int
}

// Allocator is the Token Allocator (spec §4.5): the single serialization
// point through which every token request passes. All state mutation
// happens inside handle's critical section; everything outside it
// (lease-store I/O during initialization, span creation) may run
// concurrently with other Sequencer instances but never with itself.
type Allocator struct {
	mu sync.Mutex

	tail int64 // T, the next position not yet issued

	lease   *LeaseManager
	streams *StreamIndex
	cache   *ConflictCache

	metrics Metrics
}

// NewAllocator constructs an Allocator. Call Initialize before Handle.
func NewAllocator(lease *LeaseManager, cfg AllocatorConfig) *Allocator {
	return &Allocator{
		lease:   lease,
		streams: NewStreamIndex(),
		cache:   NewConflictCache(cfg.ConflictCacheCapacity),
	}
}

// SetMetrics installs an optional metrics hook. Passing nil disables
// reporting. Not safe to call concurrently with Handle.
func (a *Allocator) SetMetrics(m Metrics) {
	a.metrics = m
}

// Initialize loads the persisted lease and sets the starting global tail,
// per spec §4.2's initialize() operation.
func (a *Allocator) Initialize(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	tail, err := a.lease.Initialize(ctx)
	if err != nil {
		return err
	}
	a.tail = tail
	recordGlobalTail(a.metrics, a.tail)
	return nil
}

// Handle implements spec §4.5's handle(req) state machine: malformed-request
// rejection, the query path, transaction resolution, the lease check, then
// the non-stream path or the grant path, in that order. The whole operation
// runs under a single mutex — simplicity over throughput, as the spec calls
// for (§5).
func (a *Allocator) Handle(ctx context.Context, req TokenRequest) (TokenResponse, error) {
	if req.Overwrite && req.ReplexOverwrite {
		return TokenResponse{}, newMalformedRequestError("overwrite and replexOverwrite are mutually exclusive")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()

	ctx, span := telemetry.StartAllocatorSpan(ctx, "handle",
		telemetry.NumTokens(req.NumTokens),
		telemetry.StreamCount(len(req.Streams)),
		telemetry.Txn(req.TxnResolution),
		telemetry.Overwrite(req.Overwrite),
		telemetry.ReplexOverwrite(req.ReplexOverwrite),
	)
	defer span.End()

	if req.NumTokens == 0 {
		return a.handleQuery(ctx, req), nil
	}

	if req.TxnResolution {
		if aborted := a.resolveTransaction(ctx, req); aborted {
			observeAbort(a.metrics)
			logger.InfoCtx(ctx, "transaction resolution aborted request",
				logger.ReadTimestamp(req.ReadTimestamp))
			return TokenResponse{Token: Absent}, nil
		}
	}

	boundaryBefore := a.lease.LeaseBoundary()
	if err := a.lease.MaybeRenew(ctx, a.tail); err != nil {
		observeLeaseExhausted(a.metrics)
		return TokenResponse{}, newLeaseExhaustedError(
			fmt.Sprintf("lease renewal failed: %v", err))
	}
	if a.lease.LeaseBoundary() != boundaryBefore {
		observeRenewal(a.metrics)
	}
	if a.tail+int64(req.NumTokens) > a.lease.LeaseLimit() {
		observeLeaseExhausted(a.metrics)
		return TokenResponse{}, newLeaseExhaustedError(
			fmt.Sprintf("requesting %d tokens from tail %d would exceed lease limit %d",
				req.NumTokens, a.tail, a.lease.LeaseLimit()))
	}

	var resp TokenResponse
	if req.Streams == nil {
		resp = a.handleNonStream(ctx, req)
	} else {
		resp = a.handleGrant(ctx, req)
	}

	recordGlobalTail(a.metrics, a.tail)
	observeGrant(a.metrics, grantKind(req), time.Since(start))
	recordCacheSize(a.metrics, a.cache.Len(), a.cache.Capacity())

	return resp, nil
}

func grantKind(req TokenRequest) string {
	switch {
	case req.Streams == nil:
		return "non_stream"
	case req.TxnResolution:
		return "txn"
	default:
		return "stream"
	}
}

// handleQuery implements spec §4.5.1: n=0 requests never advance the tail.
// With Streams supplied, the response carries each stream's current local
// tail and the max back-pointer among them as the reported global
// position; with no streams (Streams nil or empty) it reports the
// last-issued global position.
func (a *Allocator) handleQuery(ctx context.Context, req TokenRequest) TokenResponse {
	_, span := telemetry.StartAllocatorSpan(ctx, "query")
	defer span.End()

	if len(req.Streams) == 0 {
		return TokenResponse{Token: a.tail - 1}
	}

	streamTokens := make(map[StreamID]int64, len(req.Streams))
	var maxBack int64 = Absent
	for id := range req.Streams {
		streamTokens[id] = a.streams.QueryLocal(id)
		if back := a.streams.QueryBack(id); back > maxBack {
			maxBack = back
		}
	}

	return TokenResponse{
		Token:        maxBack,
		StreamTokens: streamTokens,
	}
}

// resolveTransaction implements spec §4.5.4: a transaction aborts iff any
// stream in its read set has been extended (back-pointer advanced) past
// the timestamp at which the transaction took its read snapshot, or any
// declared conflict key was written after that snapshot.
func (a *Allocator) resolveTransaction(ctx context.Context, req TokenRequest) bool {
	_, span := telemetry.StartAllocatorSpan(ctx, "txn_resolve", telemetry.ReadTimestamp(req.ReadTimestamp))
	defer span.End()

	for id := range req.ReadSet {
		if back := a.streams.QueryBack(id); back > req.ReadTimestamp {
			span.SetAttributes(telemetry.Aborted(true))
			return true
		}
	}

	for _, key := range req.ConflictKeys {
		if pos, ok := a.cache.Lookup(key); ok && pos > req.ReadTimestamp {
			span.SetAttributes(telemetry.Aborted(true))
			return true
		}
	}

	span.SetAttributes(telemetry.Aborted(false))
	return false
}

// handleNonStream implements spec §4.5.3: reserve a contiguous range of the
// global tail with no stream-index side effects.
func (a *Allocator) handleNonStream(ctx context.Context, req TokenRequest) TokenResponse {
	_, span := telemetry.StartAllocatorSpan(ctx, "non_stream")
	defer span.End()

	token := a.tail
	a.tail += int64(req.NumTokens)

	return TokenResponse{Token: token}
}

// handleGrant implements spec §4.5.5: reserve a contiguous range, then for
// each touched stream update its back-pointer unconditionally and gate the
// local-tail advance on the overwrite/replexOverwrite flag table:
//
//	overwrite  replexOverwrite  local tail
//	false      false            advance
//	false      true             advance
//	true       false            do not advance
//	true       true             malformed (rejected earlier)
func (a *Allocator) handleGrant(ctx context.Context, req TokenRequest) TokenResponse {
	_, span := telemetry.StartAllocatorSpan(ctx, "grant")
	defer span.End()

	token := a.tail
	a.tail += int64(req.NumTokens)

	backpointers := make(map[StreamID]int64, len(req.Streams))
	streamTokens := make(map[StreamID]int64, len(req.Streams))

	advanceLocal := !req.Overwrite

	for id := range req.Streams {
		previous := a.streams.RecordBackPointer(id, token+int64(req.NumTokens)-1)
		backpointers[id] = previous

		if advanceLocal {
			streamTokens[id] = a.streams.AdvanceLocal(id, req.NumTokens)
		}
	}

	for _, key := range req.ConflictKeys {
		if evicted := a.cache.RecordWrite(key, token+int64(req.NumTokens)-1); evicted {
			recordCacheEviction(a.metrics)
		}
	}

	return TokenResponse{
		Token:          token,
		BackpointerMap: backpointers,
		StreamTokens:   streamTokens,
	}
}

// ResetLease performs the administrative initial-token override: it
// repositions both the lease boundary and the global tail to token,
// bypassing the skip-forward rule. Callers are expected to coordinate this
// with the surrounding system (e.g. during a maintenance window) since it
// can otherwise violate monotonicity for any client still holding an
// earlier token.
func (a *Allocator) ResetLease(ctx context.Context, token int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.lease.Reset(ctx, token); err != nil {
		return err
	}
	a.tail = token
	recordGlobalTail(a.metrics, a.tail)
	return nil
}

// GlobalTail returns the current value of T. Intended for status/admin
// reporting, not for request handling.
func (a *Allocator) GlobalTail() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tail
}

// LeaseBoundary returns the current lease start L. Intended for
// status/admin reporting.
func (a *Allocator) LeaseBoundary() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lease.LeaseBoundary()
}

// Snapshot is a point-in-time read of the allocator's state, for status
// reporting and checkpoint export. It is not part of any recovery path.
type Snapshot struct {
	GlobalTail        int64
	LeaseBoundary     int64
	StreamCount       int
	ConflictCacheSize int
}

// Snapshot returns a consistent snapshot of the allocator's state under
// the same mutex that serializes Handle.
func (a *Allocator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		GlobalTail:        a.tail,
		LeaseBoundary:     a.lease.LeaseBoundary(),
		StreamCount:       a.streams.StreamCount(),
		ConflictCacheSize: a.cache.Len(),
	}
}
