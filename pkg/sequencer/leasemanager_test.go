package sequencer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/sequencer/pkg/leasestore/memory"
)

func TestLeaseManager_InitializeFreshBoot(t *testing.T) {
	lm := NewLeaseManager(memory.New(), LeaseManagerConfig{LeaseLength: 100, LeaseRenewalNotice: 10, InitialToken: InitialTokenSentinel})
	tail, err := lm.Initialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), tail)
	assert.Equal(t, int64(0), lm.LeaseBoundary())
}

func TestLeaseManager_InitializeSkipsForwardOnRestart(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.WriteLease(ctx, 250))

	lm := NewLeaseManager(store, LeaseManagerConfig{LeaseLength: 100, LeaseRenewalNotice: 10, InitialToken: InitialTokenSentinel})
	tail, err := lm.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(350), tail)
}

func TestLeaseManager_InitializeHonorsAdminOverride(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.WriteLease(ctx, 250))

	lm := NewLeaseManager(store, LeaseManagerConfig{LeaseLength: 100, LeaseRenewalNotice: 10, InitialToken: 42})
	tail, err := lm.Initialize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), tail, "admin override bypasses the skip-forward rule")
}

func TestLeaseManager_ShouldRenewAtNoticeWindow(t *testing.T) {
	lm := NewLeaseManager(memory.New(), LeaseManagerConfig{LeaseLength: 100, LeaseRenewalNotice: 10, InitialToken: InitialTokenSentinel})
	_, err := lm.Initialize(context.Background())
	require.NoError(t, err)

	assert.False(t, lm.ShouldRenew(89))
	assert.True(t, lm.ShouldRenew(90))
}

func TestLeaseManager_MaybeRenewAdvancesAndPersists(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	lm := NewLeaseManager(store, LeaseManagerConfig{LeaseLength: 100, LeaseRenewalNotice: 10, InitialToken: InitialTokenSentinel})
	_, err := lm.Initialize(ctx)
	require.NoError(t, err)

	require.NoError(t, lm.MaybeRenew(ctx, 50))
	assert.Equal(t, int64(0), lm.LeaseBoundary(), "renewal not yet due")

	require.NoError(t, lm.MaybeRenew(ctx, 90))
	assert.Equal(t, int64(100), lm.LeaseBoundary())

	pos, found, err := store.ReadLease(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(100), pos)
}

func TestLeaseManager_Reset(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	lm := NewLeaseManager(store, LeaseManagerConfig{LeaseLength: 100, LeaseRenewalNotice: 10, InitialToken: InitialTokenSentinel})
	_, err := lm.Initialize(ctx)
	require.NoError(t, err)

	require.NoError(t, lm.Reset(ctx, 7))
	assert.Equal(t, int64(7), lm.LeaseBoundary())

	pos, found, err := store.ReadLease(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(7), pos)
}
