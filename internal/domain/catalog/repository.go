package catalog

import (
	"context"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository is the local store contract for products. Save persists
// the product and its variant set atomically.
type ProductRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteID string) (*Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	ListIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, product *Product) error
	SetRemoteID(ctx context.Context, tenantID, id uuid.UUID, remoteID string) error
	SetVariantRemoteIDs(ctx context.Context, productID uuid.UUID, remoteIDsBySKU map[string]string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CategoryRepository stores categories keyed by normalized name
type CategoryRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Category, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Category, error)
	// LookupOrCreate returns the category with the normalized form of name,
	// creating it if absent. Repeated calls never create duplicates.
	LookupOrCreate(ctx context.Context, tenantID uuid.UUID, name string) (*Category, error)
}

// VendorRepository stores vendors keyed by normalized name
type VendorRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Vendor, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Vendor, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Vendor, error)
	LookupOrCreate(ctx context.Context, tenantID uuid.UUID, name string) (*Vendor, error)
}
