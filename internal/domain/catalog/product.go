package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source records which side last wrote a reference field
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// RemoteFields is a bit mask of descriptive fields last written by a pull
type RemoteFields uint8

const (
	RemoteTitle RemoteFields = 1 << iota
	RemoteDescription
	RemoteTags
)

// Has reports whether every bit of f is set
func (m RemoteFields) Has(f RemoteFields) bool {
	return m&f == f
}

// Product is a catalog item and the aggregate root for its variants.
// RemoteID stays nil until the product is first pushed to, or pulled from,
// the storefront.
type Product struct {
	shared.TenantAggregateRoot
	RemoteID       *string          `gorm:"type:varchar(100);index"`
	Title          string           `gorm:"type:varchar(255);not null"`
	Description    string           `gorm:"type:text"`
	Price          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate        decimal.Decimal  `gorm:"type:decimal(9,4);not null;default:0"`
	StockStatus    StockStatus      `gorm:"type:varchar(20);not null;default:'in_stock'"`
	Tags           valueobject.Tags `gorm:"type:text;not null"`
	CategoryID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	CategorySource Source           `gorm:"type:varchar(10);not null;default:'local'"`
	VendorID       *uuid.UUID       `gorm:"type:uuid;index"`
	VendorSource   Source           `gorm:"type:varchar(10);not null;default:'local'"`
	RemoteSourced  RemoteFields     `gorm:"type:smallint;not null;default:0"`
	Category       *Category        `gorm:"foreignKey:CategoryID"`
	Vendor         *Vendor          `gorm:"foreignKey:VendorID"`
	Variants       []Variant        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product. Title and category are mandatory.
func NewProduct(tenantID uuid.UUID, title string, categoryID uuid.UUID) (*Product, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, ErrCategoryRequired
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Price:               decimal.Zero,
		TaxRate:             decimal.Zero,
		StockStatus:         DefaultStockStatus,
		Tags:                valueobject.Tags{},
		CategoryID:          categoryID,
		CategorySource:      SourceLocal,
		VendorSource:        SourceLocal,
		Variants:            make([]Variant, 0),
	}, nil
}

// ValidateTitle checks a product title after trimming
func ValidateTitle(title string) error {
	return validateTitle(strings.TrimSpace(title))
}

func validateTitle(title string) error {
	if title == "" {
		return ErrProductTitleRequired
	}
	if utf8.RuneCountInString(title) > 255 {
		return ErrProductTitleTooLong
	}
	return nil
}

// Rename sets the title
func (p *Product) Rename(title string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}
	p.Title = title
	p.RemoteSourced &^= RemoteTitle
	p.changed()
	return nil
}

// SetDescription sets the description
func (p *Product) SetDescription(description string) {
	p.Description = description
	p.RemoteSourced &^= RemoteDescription
	p.changed()
}

// SetPricing sets price and tax rate
func (p *Product) SetPricing(price, taxRate decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if taxRate.IsNegative() {
		return ErrNegativeTaxRate
	}
	p.Price = price
	p.TaxRate = taxRate
	p.changed()
	return nil
}

// SetStockStatus sets the stock status; only known values are accepted
func (p *Product) SetStockStatus(status StockStatus) error {
	if !status.IsValid() {
		return ErrInvalidStockStatus
	}
	p.StockStatus = status
	p.changed()
	return nil
}

// SetTags replaces the tag set
func (p *Product) SetTags(tags []string) {
	p.Tags = valueobject.NewTags(tags...)
	p.RemoteSourced &^= RemoteTags
	p.changed()
}

// acceptsRemote reports whether a pull may write field: it is blank
// locally or was itself written by an earlier pull.
func (p *Product) acceptsRemote(field RemoteFields, localBlank bool) bool {
	return localBlank || p.RemoteSourced.Has(field)
}

// MarkRemoteSourced records fields as written by a pull
func (p *Product) MarkRemoteSourced(fields RemoteFields) {
	p.RemoteSourced |= fields
}

// ApplyRemoteTitle takes the storefront title unless the local one was
// edited by hand. It reports whether the title changed.
func (p *Product) ApplyRemoteTitle(title string) (bool, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return false, err
	}
	if !p.acceptsRemote(RemoteTitle, p.Title == "") {
		return false, nil
	}
	p.RemoteSourced |= RemoteTitle
	if p.Title == title {
		return false, nil
	}
	p.Title = title
	p.changed()
	return true, nil
}

// ApplyRemoteDescription takes a non-blank storefront description unless
// the local one was edited by hand
func (p *Product) ApplyRemoteDescription(description string) bool {
	if strings.TrimSpace(description) == "" {
		return false
	}
	if !p.acceptsRemote(RemoteDescription, strings.TrimSpace(p.Description) == "") {
		return false
	}
	p.RemoteSourced |= RemoteDescription
	if p.Description == description {
		return false
	}
	p.Description = description
	p.changed()
	return true
}

// ApplyRemoteTags takes a non-empty storefront tag set unless the local
// tags were edited by hand
func (p *Product) ApplyRemoteTags(tags []string) bool {
	incoming := valueobject.NewTags(tags...)
	if len(incoming) == 0 {
		return false
	}
	if !p.acceptsRemote(RemoteTags, len(p.Tags) == 0) {
		return false
	}
	p.RemoteSourced |= RemoteTags
	if slices.Equal(p.Tags, incoming) {
		return false
	}
	p.Tags = incoming
	p.changed()
	return true
}

// AssignCategory links the product to a category and records who chose it
func (p *Product) AssignCategory(category *Category, source Source) error {
	if category == nil || category.ID == uuid.Nil {
		return ErrCategoryRequired
	}
	p.CategoryID = category.ID
	p.Category = category
	p.CategorySource = source
	p.changed()
	return nil
}

// AssignVendor links the product to a vendor; nil clears it
func (p *Product) AssignVendor(vendor *Vendor, source Source) {
	if vendor == nil {
		p.VendorID = nil
		p.Vendor = nil
	} else {
		id := vendor.ID
		p.VendorID = &id
		p.Vendor = vendor
	}
	p.VendorSource = source
	p.changed()
}

// AcceptsRemoteCategory reports whether a pull may replace the category.
// A category chosen locally is never replaced from the storefront.
func (p *Product) AcceptsRemoteCategory() bool {
	return p.CategorySource != SourceLocal || p.CategoryID == uuid.Nil
}

// AcceptsRemoteVendor reports whether a pull may replace the vendor
func (p *Product) AcceptsRemoteVendor() bool {
	return p.VendorSource != SourceLocal || p.VendorID == nil
}

// HasRemoteID reports whether the product is linked to the storefront
func (p *Product) HasRemoteID() bool {
	return p.RemoteID != nil && *p.RemoteID != ""
}

// RemoteKey returns the remote identifier or an empty string
func (p *Product) RemoteKey() string {
	if p.RemoteID == nil {
		return ""
	}
	return *p.RemoteID
}

// AssignRemoteID links the product to its storefront record. Assigning the
// same id again is a no-op; assigning a different one is an error.
func (p *Product) AssignRemoteID(remoteID string) error {
	remoteID = strings.TrimSpace(remoteID)
	if remoteID == "" {
		return shared.ErrInvalidInput
	}
	if p.HasRemoteID() {
		if *p.RemoteID == remoteID {
			return nil
		}
		return ErrRemoteIDImmutable
	}
	p.RemoteID = &remoteID
	p.changed()
	return nil
}

// AddVariant appends a new variant, rejecting duplicate SKUs
func (p *Product) AddVariant(spec VariantSpec) (*Variant, error) {
	if p.FindVariantBySKU(spec.SKU) != nil {
		return nil, ErrDuplicateSKU
	}
	v, err := NewVariant(p.ID, spec)
	if err != nil {
		return nil, err
	}
	p.Variants = append(p.Variants, *v)
	p.changed()
	return &p.Variants[len(p.Variants)-1], nil
}

// FindVariantBySKU returns the variant with the given SKU, or nil
func (p *Product) FindVariantBySKU(sku string) *Variant {
	sku = strings.TrimSpace(sku)
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return &p.Variants[i]
		}
	}
	return nil
}

// VariantMergeResult counts what MergeVariants did
type VariantMergeResult struct {
	Created int
	Updated int
}

// MergeVariants folds incoming variants into the product keyed by SKU:
// a matching SKU updates the existing variant, anything else is inserted.
// Variants missing from incoming are left untouched. The whole set is
// validated before anything is changed, so a bad spec leaves the product
// as it was.
func (p *Product) MergeVariants(incoming []VariantSpec, fromRemote bool) (VariantMergeResult, error) {
	var result VariantMergeResult
	if err := ValidateVariantSpecs(incoming); err != nil {
		return result, err
	}

	for _, spec := range incoming {
		if existing := p.FindVariantBySKU(spec.SKU); existing != nil {
			existing.apply(spec, !fromRemote)
			result.Updated++
			continue
		}
		v, err := NewVariant(p.ID, spec)
		if err != nil {
			return result, err
		}
		p.Variants = append(p.Variants, *v)
		result.Created++
	}
	if result.Created+result.Updated > 0 {
		p.changed()
	}
	return result, nil
}

// ValidateVariantSpecs checks each spec and rejects SKUs repeated within
// the set
func ValidateVariantSpecs(specs []VariantSpec) error {
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return err
		}
		sku := strings.TrimSpace(spec.SKU)
		if _, dup := seen[sku]; dup {
			return ErrDuplicateSKU
		}
		seen[sku] = struct{}{}
	}
	return nil
}

// TotalInventory sums inventory across variants
func (p *Product) TotalInventory() int {
	total := 0
	for _, v := range p.Variants {
		total += v.InventoryQuantity
	}
	return total
}

// CategoryName returns the loaded category's name, if any
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// VendorName returns the loaded vendor's name, if any
func (p *Product) VendorName() string {
	if p.Vendor == nil {
		return ""
	}
	return p.Vendor.Name
}

func (p *Product) changed() {
	p.Touch()
	p.IncrementVersion()
}
