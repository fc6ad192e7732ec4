package catalog

import (
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Category is a named product grouping. Categories are created on demand
// from product forms and from reconciliation, keyed by normalized name.
type Category struct {
	shared.BaseEntity
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(100);not null"`
	NormalizedName string    `gorm:"type:varchar(100);not null;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category from a display name
func NewCategory(tenantID uuid.UUID, name string) (*Category, error) {
	name = valueobject.CleanName(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Category{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		Name:           name,
		NormalizedName: valueobject.NormalizeName(name),
	}, nil
}

// Vendor is the brand or supplier a product is sold under
type Vendor struct {
	shared.BaseEntity
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:varchar(100);not null"`
	NormalizedName string    `gorm:"type:varchar(100);not null;index"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a vendor from a display name
func NewVendor(tenantID uuid.UUID, name string) (*Vendor, error) {
	name = valueobject.CleanName(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return &Vendor{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       tenantID,
		Name:           name,
		NormalizedName: valueobject.NormalizeName(name),
	}, nil
}
