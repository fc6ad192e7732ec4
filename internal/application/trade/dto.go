package trade

import (
	"time"

	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	ErpStatus  string     `form:"erp_status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	CustomerID string     `form:"customer_id" binding:"omitempty,uuid"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=placed_at total_price name created_at"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UpdateErpStatusRequest moves an order along the ERP state machine
type UpdateErpStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
}

// LineItemResponse represents one order line in API responses
type LineItemResponse struct {
	Title        string          `json:"title"`
	VariantTitle string          `json:"variant_title"`
	SKU          string          `json:"sku"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                uuid.UUID           `json:"id"`
	TenantID          uuid.UUID           `json:"tenant_id"`
	RemoteOrderID     string              `json:"remote_order_id"`
	Name              string              `json:"name"`
	PlacedAt          *time.Time          `json:"placed_at"`
	TotalPrice        decimal.Decimal     `json:"total_price"`
	SubtotalPrice     decimal.Decimal     `json:"subtotal_price"`
	TotalTax          decimal.Decimal     `json:"total_tax"`
	TotalShipping     decimal.Decimal     `json:"total_shipping"`
	CurrencyCode      string              `json:"currency_code"`
	PaymentStatus     string              `json:"payment_status"`
	FulfillmentStatus string              `json:"fulfillment_status"`
	ErpStatus         string              `json:"erp_status"`
	ShipmentStatus    string              `json:"shipment_status"`
	ShipmentRef       string              `json:"shipment_ref"`
	CustomerID        *uuid.UUID          `json:"customer_id"`
	CustomerName      string              `json:"customer_name"`
	CustomerEmail     string              `json:"customer_email"`
	CustomerPhone     string              `json:"customer_phone"`
	ShippingAddress   valueobject.Address `json:"shipping_address"`
	BillingAddress    valueobject.Address `json:"billing_address"`
	LineItems         []LineItemResponse  `json:"line_items"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]LineItemResponse, len(o.LineItems))
	for i, item := range o.LineItems {
		items[i] = LineItemResponse{
			Title:        item.Title,
			VariantTitle: item.VariantTitle,
			SKU:          item.SKU,
			Quantity:     item.Quantity,
			Price:        item.Price,
		}
	}
	return OrderResponse{
		ID:                o.ID,
		TenantID:          o.TenantID,
		RemoteOrderID:     o.RemoteOrderID,
		Name:              o.Name,
		PlacedAt:          o.PlacedAt,
		TotalPrice:        o.TotalPrice,
		SubtotalPrice:     o.SubtotalPrice,
		TotalTax:          o.TotalTax,
		TotalShipping:     o.TotalShipping,
		CurrencyCode:      o.CurrencyCode,
		PaymentStatus:     o.PaymentStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		ErpStatus:         o.ErpStatus.String(),
		ShipmentStatus:    o.ShipmentStatus,
		ShipmentRef:       o.ShipmentRef,
		CustomerID:        o.CustomerID,
		CustomerName:      o.CustomerDetails.Name,
		CustomerEmail:     o.CustomerDetails.Email,
		CustomerPhone:     o.CustomerDetails.Phone,
		ShippingAddress:   o.ShippingAddress,
		BillingAddress:    o.BillingAddress,
		LineItems:         items,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}
