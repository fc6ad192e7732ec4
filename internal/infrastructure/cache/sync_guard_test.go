package cache

import (
	"context"
	"testing"
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSyncGuard_AcquireRelease(t *testing.T) {
	store, _ := newTestStore(t)
	guard := NewSyncGuard(store, time.Minute, zap.NewNop())
	ctx := context.Background()
	tenantID := uuid.New()

	release, err := guard.Acquire(ctx, tenantID, integration.EntityKindProduct)
	require.NoError(t, err)

	_, err = guard.Acquire(ctx, tenantID, integration.EntityKindProduct)
	assert.ErrorIs(t, err, integration.ErrSyncInProgress)

	otherKind, err := guard.Acquire(ctx, tenantID, integration.EntityKindCustomer)
	require.NoError(t, err)
	otherKind()

	otherTenant, err := guard.Acquire(ctx, uuid.New(), integration.EntityKindProduct)
	require.NoError(t, err)
	otherTenant()

	release()
	again, err := guard.Acquire(ctx, tenantID, integration.EntityKindProduct)
	require.NoError(t, err)
	again()
}

func TestSyncGuard_ExpiredLeaseDoesNotReleaseNewRun(t *testing.T) {
	store, now := newTestStore(t)
	guard := NewSyncGuard(store, time.Minute, zap.NewNop())
	ctx := context.Background()
	tenantID := uuid.New()

	stale, err := guard.Acquire(ctx, tenantID, integration.EntityKindOrder)
	require.NoError(t, err)

	*now = now.Add(2 * time.Minute)
	fresh, err := guard.Acquire(ctx, tenantID, integration.EntityKindOrder)
	require.NoError(t, err)

	stale()
	_, err = guard.Acquire(ctx, tenantID, integration.EntityKindOrder)
	assert.ErrorIs(t, err, integration.ErrSyncInProgress)

	fresh()
	_, err = guard.Acquire(ctx, tenantID, integration.EntityKindOrder)
	assert.NoError(t, err)
}
