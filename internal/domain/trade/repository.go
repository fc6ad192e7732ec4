package trade

import (
	"context"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository is the local store contract for orders
type OrderRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (*Order, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, order *Order) error
	// UpdateLocalFields writes only erp_status and the shipment columns
	UpdateLocalFields(ctx context.Context, order *Order) error
}
