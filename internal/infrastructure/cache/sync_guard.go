package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultGuardTTL bounds how long a crashed run can hold its slot
const DefaultGuardTTL = 30 * time.Minute

// SyncGuard implements integration.SyncGuard on top of a Store. Each slot
// holds a random token so that a run whose lease expired cannot release a
// newer run's slot.
type SyncGuard struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewSyncGuard creates a guard with the given lease duration
func NewSyncGuard(store Store, ttl time.Duration, logger *zap.Logger) *SyncGuard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &SyncGuard{store: store, ttl: ttl, logger: logger}
}

func guardKey(tenantID uuid.UUID, kind integration.EntityKind) string {
	return fmt.Sprintf("sync:guard:%s:%s", tenantID, kind)
}

// Acquire claims the (tenant, kind) slot or returns ErrSyncInProgress
func (g *SyncGuard) Acquire(ctx context.Context, tenantID uuid.UUID, kind integration.EntityKind) (func(), error) {
	key := guardKey(tenantID, kind)
	token := uuid.NewString()

	ok, err := g.store.SetNX(ctx, key, token, g.ttl)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, integration.ErrSyncInProgress
	}

	release := func() {
		released, err := g.store.CompareAndDelete(context.WithoutCancel(ctx), key, token)
		if err != nil {
			g.logger.Error("Failed to release sync guard",
				zap.String("key", key),
				zap.Error(err),
			)
			return
		}
		if !released {
			g.logger.Warn("Sync guard lease expired before release", zap.String("key", key))
		}
	}
	return release, nil
}

// Ensure SyncGuard implements integration.SyncGuard
var _ integration.SyncGuard = (*SyncGuard)(nil)
