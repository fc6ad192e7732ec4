package partner

import (
	"context"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository is the local store contract for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteID string) (*Customer, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Customer, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Customer, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)
	ListIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, customer *Customer) error
	SetRemoteID(ctx context.Context, tenantID, id uuid.UUID, remoteID string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
