package partner

import (
	"time"

	"github.com/erp/storesync/internal/domain/partner"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddressRequest is the customer's default address
type AddressRequest struct {
	Line          string `json:"address_line" binding:"max=255"`
	City          string `json:"city" binding:"max=100"`
	State         string `json:"state" binding:"max=100"`
	Country       string `json:"country" binding:"max=100"`
	FormattedArea string `json:"formatted_area" binding:"max=255"`
}

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	CustCode  string         `json:"cust_code" binding:"max=50"`
	FirstName string         `json:"first_name" binding:"max=100"`
	LastName  string         `json:"last_name" binding:"max=100"`
	Email     string         `json:"email" binding:"omitempty,email,max=200"`
	Phone     string         `json:"phone" binding:"max=50"`
	Note      string         `json:"note" binding:"max=2000"`
	Tags      []string       `json:"tags" binding:"omitempty,max=50,dive,max=100"`
	Address   AddressRequest `json:"address"`
}

// UpdateCustomerRequest replaces the customer's profile. Storefront
// metrics and remote identifiers cannot be edited.
type UpdateCustomerRequest struct {
	CustCode  *string        `json:"cust_code" binding:"omitempty,max=50"`
	FirstName string         `json:"first_name" binding:"max=100"`
	LastName  string         `json:"last_name" binding:"max=100"`
	Email     string         `json:"email" binding:"omitempty,email,max=200"`
	Phone     string         `json:"phone" binding:"max=50"`
	Note      string         `json:"note" binding:"max=2000"`
	Tags      []string       `json:"tags" binding:"omitempty,max=50,dive,max=100"`
	Address   AddressRequest `json:"address"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Synced   *bool  `form:"synced"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=first_name last_name email created_at amount_spent number_of_orders"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	RemoteID       *string         `json:"remote_id"`
	CustCode       string          `json:"cust_code"`
	DisplayName    string          `json:"display_name"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Note           string          `json:"note"`
	Tags           []string        `json:"tags"`
	AddressLine    string          `json:"address_line"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	Country        string          `json:"country"`
	FormattedArea  string          `json:"formatted_area"`
	NumberOfOrders int             `json:"number_of_orders"`
	AmountSpent    decimal.Decimal `json:"amount_spent"`
	CurrencyCode   string          `json:"currency_code"`
	VerifiedEmail  bool            `json:"verified_email"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (a AddressRequest) toDomain() partner.Address {
	return partner.Address{
		Line:          a.Line,
		City:          a.City,
		State:         a.State,
		Country:       a.Country,
		FormattedArea: a.FormattedArea,
	}
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	tags := []string(c.Tags)
	if tags == nil {
		tags = []string{}
	}
	return CustomerResponse{
		ID:             c.ID,
		TenantID:       c.TenantID,
		RemoteID:       c.RemoteID,
		CustCode:       c.CustCode,
		DisplayName:    c.DisplayName(),
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Note:           c.Note,
		Tags:           tags,
		AddressLine:    c.AddressLine,
		City:           c.City,
		State:          c.State,
		Country:        c.Country,
		FormattedArea:  c.FormattedArea,
		NumberOfOrders: c.NumberOfOrders,
		AmountSpent:    c.AmountSpent,
		CurrencyCode:   c.CurrencyCode,
		VerifiedEmail:  c.VerifiedEmail,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out
}
