package sequencer

import (
	"context"
	"fmt"

	"github.com/marmos91/sequencer/internal/logger"
	"github.com/marmos91/sequencer/internal/telemetry"
	"github.com/marmos91/sequencer/pkg/leasestore"
)

// InitialTokenSentinel disables the administrative initial-token override
// when supplied as LeaseManagerConfig.InitialToken.
const InitialTokenSentinel = int64(-1) << 63 // math.MinInt64, spelled out to avoid an import for one constant

// LeaseManagerConfig configures a LeaseManager.
type LeaseManagerConfig struct {
	// LeaseLength is the width of the range this Sequencer is authorized
	// to issue before it must renew. Default 100_000.
	LeaseLength int64

	// LeaseRenewalNotice is the slack, in positions, before the lease
	// boundary at which renewal is attempted. Default 10_000.
	LeaseRenewalNotice int64

	// InitialToken, if not InitialTokenSentinel, is an administrative
	// override applied at initialize() that bypasses the skip-forward
	// rule (spec §4.2).
	InitialToken int64
}

// LeaseManager maintains the in-memory copy of the current lease start L
// and enforces that the global tail never outruns L+LeaseLength.
//
// Not safe for concurrent use on its own: all methods are called only from
// within the allocator's serialized critical section.
type LeaseManager struct {
	store  leasestore.Store
	cfg    LeaseManagerConfig
	leaseL int64
}

// NewLeaseManager constructs a LeaseManager over the given store. Call
// Initialize before use.
func NewLeaseManager(store leasestore.Store, cfg LeaseManagerConfig) *LeaseManager {
	if cfg.LeaseLength <= 0 {
		cfg.LeaseLength = 100_000
	}
	if cfg.LeaseRenewalNotice <= 0 {
		cfg.LeaseRenewalNotice = 10_000
	}
	return &LeaseManager{store: store, cfg: cfg}
}

// Initialize implements spec §4.2's initialize() operation, returning the
// starting value for the global tail T.
func (lm *LeaseManager) Initialize(ctx context.Context) (tail int64, err error) {
	ctx, span := telemetry.StartLeaseSpan(ctx, "initialize")
	defer span.End()

	if lm.cfg.InitialToken != InitialTokenSentinel {
		if err := lm.store.WriteLease(ctx, lm.cfg.InitialToken); err != nil {
			return 0, newStorageUnavailableError(fmt.Sprintf("failed to persist initial-token override: %v", err))
		}
		lm.leaseL = lm.cfg.InitialToken
		logger.InfoCtx(ctx, "lease manager initialized from administrative override",
			logger.LeaseBoundary(lm.leaseL))
		return lm.leaseL, nil
	}

	pos, found, err := lm.store.ReadLease(ctx)
	if err != nil {
		return 0, newStorageUnavailableError(fmt.Sprintf("failed to read persisted lease: %v", err))
	}

	if !found {
		lm.leaseL = 0
		if err := lm.store.WriteLease(ctx, lm.leaseL); err != nil {
			return 0, newStorageUnavailableError(fmt.Sprintf("failed to persist initial lease: %v", err))
		}
		logger.InfoCtx(ctx, "lease manager initialized on fresh boot", logger.LeaseBoundary(lm.leaseL))
		return lm.leaseL, nil
	}

	// Skip forward by a full lease length: the prior process may have
	// issued any position in [pos, pos+leaseLength), and reusing them
	// would violate total-order uniqueness (spec §4.2).
	lm.leaseL = pos + lm.cfg.LeaseLength
	if err := lm.store.WriteLease(ctx, lm.leaseL); err != nil {
		return 0, newStorageUnavailableError(fmt.Sprintf("failed to persist skip-forward lease: %v", err))
	}

	logger.InfoCtx(ctx, "lease manager skipped forward on restart",
		logger.LeaseBoundary(lm.leaseL))

	return lm.leaseL, nil
}

// Reset applies an administrative initial-token override, bypassing the
// skip-forward rule (spec §4.2, §6's admin reset operation). Callers must
// ensure no grant is concurrently in flight.
func (lm *LeaseManager) Reset(ctx context.Context, token int64) error {
	ctx, span := telemetry.StartLeaseSpan(ctx, "reset", telemetry.LeaseBoundary(token))
	defer span.End()

	if err := lm.store.WriteLease(ctx, token); err != nil {
		return newStorageUnavailableError(fmt.Sprintf("failed to persist lease reset: %v", err))
	}

	lm.leaseL = token
	logger.InfoCtx(ctx, "lease manually reset", logger.LeaseBoundary(lm.leaseL))
	return nil
}

// LeaseBoundary returns the current in-memory lease start L.
func (lm *LeaseManager) LeaseBoundary() int64 {
	return lm.leaseL
}

// LeaseLimit returns L + leaseLength, the exclusive upper bound on
// positions this Sequencer may issue without renewing.
func (lm *LeaseManager) LeaseLimit() int64 {
	return lm.leaseL + lm.cfg.LeaseLength
}

// ShouldRenew reports whether currentTail has crossed into the renewal
// notice window before the current lease limit (spec §4.5.2).
func (lm *LeaseManager) ShouldRenew(currentTail int64) bool {
	return currentTail >= lm.LeaseLimit()-lm.cfg.LeaseRenewalNotice
}

// MaybeRenew implements spec §4.2's maybeRenew(currentTail). If renewal is
// due, it advances and persists L. Called from within the allocator's
// critical section; may block on the lease store.
func (lm *LeaseManager) MaybeRenew(ctx context.Context, currentTail int64) error {
	if !lm.ShouldRenew(currentTail) {
		return nil
	}

	ctx, span := telemetry.StartLeaseSpan(ctx, "renew", telemetry.LeaseBoundary(lm.leaseL))
	defer span.End()

	newL := lm.leaseL + lm.cfg.LeaseLength
	if err := lm.store.WriteLease(ctx, newL); err != nil {
		return newStorageUnavailableError(fmt.Sprintf("failed to persist lease renewal: %v", err))
	}

	lm.leaseL = newL
	logger.InfoCtx(ctx, "lease renewed", logger.LeaseBoundary(lm.leaseL))

	return nil
}
