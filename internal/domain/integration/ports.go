package integration

import (
	"context"
	"time"

	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SyncGuard serializes runs per (tenant, kind). Acquire returns
// ErrSyncInProgress when another run holds the slot.
type SyncGuard interface {
	Acquire(ctx context.Context, tenantID uuid.UUID, kind EntityKind) (release func(), err error)
}

// ConfirmationGate issues and checks one-time codes that confirm a
// destructive action. Verify consumes the code.
type ConfirmationGate interface {
	Issue(ctx context.Context, tenantID, userID uuid.UUID, action string) error
	Verify(ctx context.Context, tenantID, userID uuid.UUID, action, code string) error
}

// ShipmentItem is one line sent to the courier
type ShipmentItem struct {
	Name  string
	SKU   string
	Units int
	Price decimal.Decimal
}

// ShipmentRequest is an order as the courier needs it
type ShipmentRequest struct {
	OrderRef      string
	OrderDate     time.Time
	PaymentMethod string
	Customer      valueobject.Address
	Email         string
	Items         []ShipmentItem
	SubTotal      decimal.Decimal
	ShippingTotal decimal.Decimal
}

// ShipmentResult is what the courier returns for a created shipment
type ShipmentResult struct {
	ShipmentRef string
	Status      string
}

// ShippingGateway creates courier shipments
type ShippingGateway interface {
	CreateShipment(ctx context.Context, creds ShiprocketCredentials, req ShipmentRequest) (*ShipmentResult, error)
}
