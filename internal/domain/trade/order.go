package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order validation errors
var (
	ErrRemoteOrderIDRequired   = shared.NewDomainError("REMOTE_ORDER_ID_REQUIRED", "Order is missing its storefront identifier")
	ErrTotalPriceRequired      = shared.NewDomainError("TOTAL_PRICE_REQUIRED", "Order is missing total_price")
	ErrIncompleteShipping      = shared.NewDomainError("INCOMPLETE_SHIPPING_ADDRESS", "Order has an incomplete shipping address")
	ErrInvalidErpStatus        = shared.NewDomainError("INVALID_ERP_STATUS", "Unknown ERP status")
	ErrInvalidStatusTransition = shared.NewDomainError("INVALID_STATE", "ERP status transition not allowed")
)

// Order is a storefront order mirrored locally. Orders only come into
// existence through synchronization; locally only ErpStatus and the
// shipment fields change.
type Order struct {
	shared.TenantAggregateRoot
	RemoteOrderID     string              `gorm:"type:varchar(100);not null;index"`
	Name              string              `gorm:"type:varchar(100)"`
	PlacedAt          *time.Time          `gorm:"index"`
	TotalPrice        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	SubtotalPrice     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalTax          decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalShipping     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CurrencyCode      string              `gorm:"type:varchar(3)"`
	PaymentStatus     string              `gorm:"type:varchar(50)"`
	FulfillmentStatus string              `gorm:"type:varchar(50)"`
	ErpStatus         ErpStatus           `gorm:"type:varchar(20);not null;default:'pending'"`
	ShipmentStatus    string              `gorm:"type:varchar(50)"`
	ShipmentRef       string              `gorm:"type:varchar(100)"`
	CustomerID        *uuid.UUID          `gorm:"type:uuid;index"`
	CustomerDetails   CustomerDetails     `gorm:"type:text"`
	ShippingAddress   valueobject.Address `gorm:"type:text"`
	BillingAddress    valueobject.Address `gorm:"type:text"`
	LineItems         LineItems           `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderDetails is the storefront's view of an order
type OrderDetails struct {
	RemoteOrderID     string
	Name              string
	PlacedAt          *time.Time
	TotalPrice        decimal.NullDecimal
	SubtotalPrice     decimal.Decimal
	TotalTax          decimal.Decimal
	TotalShipping     decimal.Decimal
	CurrencyCode      string
	PaymentStatus     string
	FulfillmentStatus string
	Customer          CustomerDetails
	ShippingAddress   valueobject.Address
	BillingAddress    valueobject.Address
	LineItems         LineItems
}

// Validate checks the fields an order cannot be created without
func (d OrderDetails) Validate() error {
	if strings.TrimSpace(d.RemoteOrderID) == "" {
		return ErrRemoteOrderIDRequired
	}
	if !d.TotalPrice.Valid {
		return ErrTotalPriceRequired
	}
	if !d.ShippingAddress.IsComplete() {
		return ErrIncompleteShipping
	}
	return nil
}

// NewOrderFromRemote creates the local mirror of a storefront order. The
// initial ErpStatus is mapped from the remote fulfilment status, falling
// back to pending.
func NewOrderFromRemote(tenantID uuid.UUID, d OrderDetails) (*Order, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	items := d.LineItems
	if items == nil {
		items = LineItems{}
	}
	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RemoteOrderID:       strings.TrimSpace(d.RemoteOrderID),
		Name:                d.Name,
		PlacedAt:            d.PlacedAt,
		TotalPrice:          d.TotalPrice.Decimal,
		SubtotalPrice:       d.SubtotalPrice,
		TotalTax:            d.TotalTax,
		TotalShipping:       d.TotalShipping,
		CurrencyCode:        d.CurrencyCode,
		PaymentStatus:       d.PaymentStatus,
		FulfillmentStatus:   d.FulfillmentStatus,
		ErpStatus:           MapErpStatus(d.FulfillmentStatus),
		CustomerDetails:     d.Customer,
		ShippingAddress:     d.ShippingAddress,
		BillingAddress:      d.BillingAddress,
		LineItems:           items,
	}, nil
}

// RefreshFromRemote updates the remote-authoritative fields of an existing
// order. ErpStatus, shipment fields and line items are left alone.
// It reports whether anything changed.
func (o *Order) RefreshFromRemote(d OrderDetails) bool {
	changed := false
	if d.PaymentStatus != "" && d.PaymentStatus != o.PaymentStatus {
		o.PaymentStatus = d.PaymentStatus
		changed = true
	}
	if d.FulfillmentStatus != "" && d.FulfillmentStatus != o.FulfillmentStatus {
		o.FulfillmentStatus = d.FulfillmentStatus
		changed = true
	}
	if changed {
		o.Touch()
		o.IncrementVersion()
	}
	return changed
}

// UpdateErpStatus moves the order along the ERP state machine
func (o *Order) UpdateErpStatus(target ErpStatus) error {
	if !target.IsValid() {
		return ErrInvalidErpStatus
	}
	if o.ErpStatus == target {
		return nil
	}
	if !o.ErpStatus.CanTransitionTo(target) {
		return shared.NewDomainError(ErrInvalidStatusTransition.Code,
			fmt.Sprintf("Cannot move order from %s to %s", o.ErpStatus, target))
	}
	o.ErpStatus = target
	o.Touch()
	o.IncrementVersion()
	return nil
}

// RecordShipment stores the outcome of a shipping-integration push
func (o *Order) RecordShipment(status, ref string) {
	o.ShipmentStatus = status
	if ref != "" {
		o.ShipmentRef = ref
	}
	o.Touch()
	o.IncrementVersion()
}

// LinkCustomer associates the order with a local customer record
func (o *Order) LinkCustomer(customerID uuid.UUID) {
	o.CustomerID = &customerID
}
