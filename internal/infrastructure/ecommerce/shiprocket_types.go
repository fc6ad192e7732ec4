package ecommerce

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type shiprocketLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type shiprocketLoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type shiprocketOrderItem struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Units        int             `json:"units"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

// shiprocketOrder is the adhoc order create payload
type shiprocketOrder struct {
	OrderID             string                `json:"order_id"`
	OrderDate           string                `json:"order_date"`
	PickupLocation      string                `json:"pickup_location"`
	BillingCustomerName string                `json:"billing_customer_name"`
	BillingLastName     string                `json:"billing_last_name"`
	BillingAddress      string                `json:"billing_address"`
	BillingAddress2     string                `json:"billing_address_2,omitempty"`
	BillingCity         string                `json:"billing_city"`
	BillingPincode      string                `json:"billing_pincode"`
	BillingState        string                `json:"billing_state"`
	BillingCountry      string                `json:"billing_country"`
	BillingEmail        string                `json:"billing_email"`
	BillingPhone        string                `json:"billing_phone"`
	ShippingIsBilling   bool                  `json:"shipping_is_billing"`
	OrderItems          []shiprocketOrderItem `json:"order_items"`
	PaymentMethod       string                `json:"payment_method"`
	ShippingCharges     decimal.Decimal       `json:"shipping_charges"`
	SubTotal            decimal.Decimal       `json:"sub_total"`
	Length              float64               `json:"length"`
	Breadth             float64               `json:"breadth"`
	Height              float64               `json:"height"`
	Weight              float64               `json:"weight"`
}

type shiprocketOrderResponse struct {
	OrderID    json.Number `json:"order_id"`
	ShipmentID json.Number `json:"shipment_id"`
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
}

type shiprocketErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
