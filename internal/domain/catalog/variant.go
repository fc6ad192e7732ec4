package catalog

import (
	"strings"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is a purchasable option of a product. A variant belongs to
// exactly one product and is deleted with it.
type Variant struct {
	shared.BaseEntity
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	RemoteID          *string         `gorm:"type:varchar(100);index"`
	Type              string          `gorm:"type:varchar(50)"`
	Title             string          `gorm:"type:varchar(255);not null"`
	SKU               string          `gorm:"column:sku;type:varchar(100);not null"`
	Price             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	InventoryQuantity int             `gorm:"not null;default:0"`
	IsAvailable       bool            `gorm:"not null;default:true"`
	Description       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// VariantSpec carries the mutable attributes of a variant, whether they come
// from a local form or from the storefront.
type VariantSpec struct {
	RemoteID          string
	Type              string
	Title             string
	SKU               string
	Price             decimal.Decimal
	TaxRate           decimal.Decimal
	InventoryQuantity int
	IsAvailable       bool
	Description       string
}

// Validate checks the mandatory variant fields
func (s VariantSpec) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrVariantTitleRequired
	}
	if strings.TrimSpace(s.SKU) == "" {
		return ErrVariantSKURequired
	}
	if s.Price.IsNegative() {
		return ErrNegativePrice
	}
	if s.TaxRate.IsNegative() {
		return ErrNegativeTaxRate
	}
	if s.InventoryQuantity < 0 {
		return ErrNegativeInventory
	}
	return nil
}

// NewVariant creates a variant for the given product
func NewVariant(productID uuid.UUID, spec VariantSpec) (*Variant, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	v := &Variant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
	}
	v.apply(spec, true)
	return v, nil
}

// apply copies spec onto the variant. When overwrite is false, blank
// descriptive fields in spec leave the existing values in place.
func (v *Variant) apply(spec VariantSpec, overwrite bool) {
	v.Title = strings.TrimSpace(spec.Title)
	v.SKU = strings.TrimSpace(spec.SKU)
	v.Price = spec.Price
	v.TaxRate = spec.TaxRate
	v.InventoryQuantity = spec.InventoryQuantity
	v.IsAvailable = spec.IsAvailable
	if overwrite || spec.Type != "" {
		v.Type = spec.Type
	}
	if overwrite || spec.Description != "" {
		v.Description = spec.Description
	}
	if spec.RemoteID != "" && v.RemoteID == nil {
		id := spec.RemoteID
		v.RemoteID = &id
	}
	v.Touch()
}

// HasRemoteID reports whether the variant has been linked to the storefront
func (v *Variant) HasRemoteID() bool {
	return v.RemoteID != nil && *v.RemoteID != ""
}

// Spec returns the variant's attributes as a spec
func (v *Variant) Spec() VariantSpec {
	spec := VariantSpec{
		Type:              v.Type,
		Title:             v.Title,
		SKU:               v.SKU,
		Price:             v.Price,
		TaxRate:           v.TaxRate,
		InventoryQuantity: v.InventoryQuantity,
		IsAvailable:       v.IsAvailable,
		Description:       v.Description,
	}
	if v.RemoteID != nil {
		spec.RemoteID = *v.RemoteID
	}
	return spec
}
