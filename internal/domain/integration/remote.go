package integration

import (
	"context"
	"strings"
	"time"

	"github.com/erp/storesync/internal/domain/shared/valueobject"
)

// ShopifyCredentials are what the storefront client needs for one tenant
type ShopifyCredentials struct {
	ShopDomain  string
	AccessToken string
}

// RemoteRecord is one record as the storefront represents it. The concrete
// types are RemoteProduct, RemoteCustomer and RemoteOrder.
type RemoteRecord interface {
	Kind() EntityKind
	RemoteKey() string
}

// RemoteVariant is a storefront product variant. Money fields are kept as
// the decimal strings the API returns.
type RemoteVariant struct {
	ID                string
	Title             string
	SKU               string
	Price             string
	InventoryQuantity *int
	Taxable           bool
	AvailableForSale  bool
	Option            string
}

// RemoteProduct is a storefront product. ProductType maps to the local
// category and Vendor to the local vendor.
type RemoteProduct struct {
	ID          string
	Title       string
	Description string
	ProductType string
	Vendor      string
	Status      string
	Tags        []string
	Variants    []RemoteVariant
}

// Kind implements RemoteRecord
func (RemoteProduct) Kind() EntityKind { return EntityKindProduct }

// RemoteKey implements RemoteRecord
func (p RemoteProduct) RemoteKey() string { return p.ID }

// RemoteCustomer is a storefront customer
type RemoteCustomer struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Note           string
	Tags           []string
	NumberOfOrders int
	AmountSpent    string
	CurrencyCode   string
	VerifiedEmail  bool
	DefaultAddress *valueobject.Address
	// FormattedAddress is the storefront's one-line rendering of the
	// default address
	FormattedAddress string
}

// Kind implements RemoteRecord
func (RemoteCustomer) Kind() EntityKind { return EntityKindCustomer }

// RemoteKey implements RemoteRecord
func (c RemoteCustomer) RemoteKey() string { return c.ID }

// RemoteLineItem is one line of a storefront order
type RemoteLineItem struct {
	Title        string
	VariantTitle string
	SKU          string
	Quantity     int
	Price        string
}

// RemoteOrder is a storefront order. TotalPrice is empty when the storefront
// did not report one.
type RemoteOrder struct {
	ID                string
	Name              string
	Email             string
	Phone             string
	CreatedAt         *time.Time
	FinancialStatus   string
	FulfillmentStatus string
	SubtotalPrice     string
	TotalShipping     string
	TotalTax          string
	TotalPrice        string
	CurrencyCode      string
	ShippingAddress   valueobject.Address
	BillingAddress    valueobject.Address
	LineItems         []RemoteLineItem
}

// Kind implements RemoteRecord
func (RemoteOrder) Kind() EntityKind { return EntityKindOrder }

// RemoteKey implements RemoteRecord
func (o RemoteOrder) RemoteKey() string { return o.ID }

// PushResult is what the storefront returns for a created or updated record
type PushResult struct {
	RemoteID string
	// VariantIDs maps SKU to the storefront variant id for products
	VariantIDs map[string]string
}

// RemoteCatalogClient is the port to the storefront API. Implementations do
// I/O only: no merging and no local writes. Failures are *RemoteError values.
type RemoteCatalogClient interface {
	// FetchAll returns every remote record of kind, following pagination
	// to the end before returning.
	FetchAll(ctx context.Context, creds ShopifyCredentials, kind EntityKind) ([]RemoteRecord, error)

	// Create creates payload upstream and returns its new identity
	Create(ctx context.Context, creds ShopifyCredentials, kind EntityKind, payload RemoteRecord) (*PushResult, error)

	// Update overwrites the remote record remoteID with payload
	Update(ctx context.Context, creds ShopifyCredentials, kind EntityKind, remoteID string, payload RemoteRecord) (*PushResult, error)

	// ShopName verifies credentials and returns the shop's display name
	ShopName(ctx context.Context, creds ShopifyCredentials) (string, error)
}

// NumericID returns the trailing numeric part of a storefront global id
// ("gid://shopify/Order/123" -> "123"). Plain ids are returned unchanged.
func NumericID(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
