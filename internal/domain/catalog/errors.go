package catalog

import "github.com/erp/storesync/internal/domain/shared"

// Catalog validation errors. Reconciliation treats these as per-record
// failures; the HTTP layer maps their codes to 400/422.
var (
	ErrProductTitleRequired = shared.NewDomainError("PRODUCT_TITLE_REQUIRED", "Product title is required")
	ErrProductTitleTooLong  = shared.NewDomainError("PRODUCT_TITLE_TOO_LONG", "Product title cannot exceed 255 characters")
	ErrCategoryRequired     = shared.NewDomainError("CATEGORY_REQUIRED", "Product category is required")
	ErrNameRequired         = shared.NewDomainError("NAME_REQUIRED", "Name is required")
	ErrNegativePrice        = shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	ErrNegativeTaxRate      = shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	ErrInvalidStockStatus   = shared.NewDomainError("INVALID_STOCK_STATUS", "Unknown stock status")
	ErrVariantTitleRequired = shared.NewDomainError("VARIANT_TITLE_REQUIRED", "Variant title is required")
	ErrVariantSKURequired   = shared.NewDomainError("VARIANT_SKU_REQUIRED", "Variant SKU is required")
	ErrDuplicateSKU         = shared.NewDomainError("DUPLICATE_SKU", "Variant SKU must be unique within a product")
	ErrNegativeInventory    = shared.NewDomainError("INVALID_INVENTORY", "Inventory quantity cannot be negative")
	ErrRemoteIDImmutable    = shared.NewDomainError("REMOTE_ID_IMMUTABLE", "Remote identifier cannot be changed once assigned")
)
