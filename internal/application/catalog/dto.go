package catalog

import (
	"time"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantRequest describes a variant in create and update requests.
// Variants are matched by SKU.
type VariantRequest struct {
	Title             string           `json:"title" binding:"required,min=1,max=255"`
	SKU               string           `json:"sku" binding:"required,min=1,max=100"`
	Type              string           `json:"type" binding:"max=50"`
	Price             *decimal.Decimal `json:"price"`
	TaxRate           *decimal.Decimal `json:"tax_rate"`
	InventoryQuantity int              `json:"inventory_quantity" binding:"min=0"`
	IsAvailable       *bool            `json:"is_available"`
	Description       string           `json:"description" binding:"max=2000"`
}

// CreateProductRequest represents a request to create a new product.
// Category and vendor are given by name and created when missing.
type CreateProductRequest struct {
	Title       string           `json:"title" binding:"required,min=1,max=255"`
	Description string           `json:"description" binding:"max=5000"`
	Category    string           `json:"category" binding:"required,min=1,max=100"`
	Vendor      string           `json:"vendor" binding:"max=100"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	StockStatus string           `json:"stock_status" binding:"omitempty,oneof=in_stock out_of_stock low_stock pre_order discontinued"`
	Tags        []string         `json:"tags" binding:"omitempty,max=50,dive,max=100"`
	Variants    []VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a request to update a product. Remote
// identifiers are not part of it.
type UpdateProductRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	Category    *string          `json:"category" binding:"omitempty,min=1,max=100"`
	Vendor      *string          `json:"vendor" binding:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	TaxRate     *decimal.Decimal `json:"tax_rate"`
	StockStatus *string          `json:"stock_status" binding:"omitempty,oneof=in_stock out_of_stock low_stock pre_order discontinued"`
	Tags        []string         `json:"tags" binding:"omitempty,max=50,dive,max=100"`
	Variants    []VariantRequest `json:"variants" binding:"omitempty,dive"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search      string `form:"search"`
	CategoryID  string `form:"category_id" binding:"omitempty,uuid"`
	StockStatus string `form:"stock_status" binding:"omitempty,oneof=in_stock out_of_stock low_stock pre_order discontinued"`
	Synced      *bool  `form:"synced"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by" binding:"omitempty,oneof=title created_at updated_at price"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// VariantResponse represents a variant in API responses
type VariantResponse struct {
	ID                uuid.UUID       `json:"id"`
	RemoteID          *string         `json:"remote_id"`
	Type              string          `json:"type"`
	Title             string          `json:"title"`
	SKU               string          `json:"sku"`
	Price             decimal.Decimal `json:"price"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	InventoryQuantity int             `json:"inventory_quantity"`
	IsAvailable       bool            `json:"is_available"`
	Description       string          `json:"description"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID         `json:"id"`
	TenantID       uuid.UUID         `json:"tenant_id"`
	RemoteID       *string           `json:"remote_id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	TaxRate        decimal.Decimal   `json:"tax_rate"`
	StockStatus    string            `json:"stock_status"`
	Tags           []string          `json:"tags"`
	CategoryID     uuid.UUID         `json:"category_id"`
	Category       string            `json:"category"`
	VendorID       *uuid.UUID        `json:"vendor_id"`
	Vendor         string            `json:"vendor"`
	TotalInventory int               `json:"total_inventory"`
	Variants       []VariantResponse `json:"variants"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Version        int               `json:"version"`
}

// NamedResponse is a category or vendor in API responses
type NamedResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	variants := make([]VariantResponse, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = VariantResponse{
			ID:                v.ID,
			RemoteID:          v.RemoteID,
			Type:              v.Type,
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             v.Price,
			TaxRate:           v.TaxRate,
			InventoryQuantity: v.InventoryQuantity,
			IsAvailable:       v.IsAvailable,
			Description:       v.Description,
		}
	}
	return ProductResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		RemoteID:       p.RemoteID,
		Title:          p.Title,
		Description:    p.Description,
		Price:          p.Price,
		TaxRate:        p.TaxRate,
		StockStatus:    p.StockStatus.String(),
		Tags:           tags,
		CategoryID:     p.CategoryID,
		Category:       p.CategoryName(),
		VendorID:       p.VendorID,
		Vendor:         p.VendorName(),
		TotalInventory: p.TotalInventory(),
		Variants:       variants,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

func (r VariantRequest) spec() catalog.VariantSpec {
	spec := catalog.VariantSpec{
		Type:              r.Type,
		Title:             r.Title,
		SKU:               r.SKU,
		Price:             decimal.Zero,
		TaxRate:           decimal.Zero,
		InventoryQuantity: r.InventoryQuantity,
		IsAvailable:       true,
		Description:       r.Description,
	}
	if r.Price != nil {
		spec.Price = *r.Price
	}
	if r.TaxRate != nil {
		spec.TaxRate = *r.TaxRate
	}
	if r.IsAvailable != nil {
		spec.IsAvailable = *r.IsAvailable
	}
	return spec
}

func variantSpecs(reqs []VariantRequest) []catalog.VariantSpec {
	specs := make([]catalog.VariantSpec, len(reqs))
	for i, r := range reqs {
		specs[i] = r.spec()
	}
	return specs
}
