package partner

import (
	"net/mail"
	"slices"
	"strings"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer validation errors
var (
	ErrCustomerNameRequired = shared.NewDomainError("CUSTOMER_NAME_REQUIRED", "Customer needs a first name, last name or email")
	ErrInvalidEmail         = shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	ErrRemoteIDImmutable    = shared.NewDomainError("REMOTE_ID_IMMUTABLE", "Remote identifier cannot be changed once assigned")
)

// Customer is a storefront buyer. The order and spend metrics are owned by
// the storefront and only change through synchronization.
type Customer struct {
	shared.TenantAggregateRoot
	RemoteID       *string          `gorm:"type:varchar(100);index"`
	CustCode       string           `gorm:"type:varchar(50);index"`
	FirstName      string           `gorm:"type:varchar(100)"`
	LastName       string           `gorm:"type:varchar(100)"`
	Email          string           `gorm:"type:varchar(200);index"`
	Phone          string           `gorm:"type:varchar(50)"`
	Note           string           `gorm:"type:text"`
	Tags           valueobject.Tags `gorm:"type:text;not null"`
	AddressLine    string           `gorm:"type:varchar(255)"`
	City           string           `gorm:"type:varchar(100)"`
	State          string           `gorm:"type:varchar(100)"`
	Country        string           `gorm:"type:varchar(100)"`
	FormattedArea  string           `gorm:"type:varchar(255)"`
	NumberOfOrders int              `gorm:"not null;default:0"`
	AmountSpent    decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CurrencyCode   string           `gorm:"type:varchar(3)"`
	VerifiedEmail  bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// Profile holds the customer fields a user may edit locally
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Note      string
	Tags      []string
	Address   Address
}

// Address is the customer's default address split into the columns the
// console shows
type Address struct {
	Line          string
	City          string
	State         string
	Country       string
	FormattedArea string
}

// Metrics are the storefront-owned counters on a customer
type Metrics struct {
	NumberOfOrders int
	AmountSpent    decimal.Decimal
	CurrencyCode   string
	VerifiedEmail  bool
}

// NewCustomer creates a customer from a locally entered profile
func NewCustomer(tenantID uuid.UUID, p Profile) (*Customer, error) {
	if err := validateProfile(p); err != nil {
		return nil, err
	}
	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AmountSpent:         decimal.Zero,
		Tags:                valueobject.Tags{},
	}
	c.applyProfile(p, true)
	return c, nil
}

func validateProfile(p Profile) error {
	if strings.TrimSpace(p.FirstName) == "" && strings.TrimSpace(p.LastName) == "" && strings.TrimSpace(p.Email) == "" {
		return ErrCustomerNameRequired
	}
	if email := strings.TrimSpace(p.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

// UpdateProfile applies a local edit. Only profile fields change; the
// storefront metrics and identity fields are never touched here.
func (c *Customer) UpdateProfile(p Profile) error {
	if err := validateProfile(p); err != nil {
		return err
	}
	c.applyProfile(p, true)
	c.IncrementVersion()
	return nil
}

// MergeRemoteProfile applies the storefront's view of the profile. Blank
// remote values leave local values in place, so a locally entered city is
// kept when the storefront has no default address. It reports whether
// anything changed.
func (c *Customer) MergeRemoteProfile(p Profile) bool {
	if !c.applyProfile(p, false) {
		return false
	}
	c.IncrementVersion()
	return true
}

func (c *Customer) applyProfile(p Profile, overwrite bool) bool {
	changed := false
	set := func(dst *string, v string) {
		v = strings.TrimSpace(v)
		if (overwrite || v != "") && *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&c.FirstName, p.FirstName)
	set(&c.LastName, p.LastName)
	set(&c.Email, strings.ToLower(p.Email))
	set(&c.Phone, p.Phone)
	if (overwrite || p.Note != "") && c.Note != p.Note {
		c.Note = p.Note
		changed = true
	}
	if overwrite || len(p.Tags) > 0 {
		if tags := valueobject.NewTags(p.Tags...); !slices.Equal(c.Tags, tags) {
			c.Tags = tags
			changed = true
		}
	}
	set(&c.AddressLine, p.Address.Line)
	set(&c.City, p.Address.City)
	set(&c.State, p.Address.State)
	set(&c.Country, p.Address.Country)
	set(&c.FormattedArea, p.Address.FormattedArea)
	if changed {
		c.Touch()
	}
	return changed
}

// ApplyRemoteMetrics overwrites the storefront-owned counters and reports
// whether they differed
func (c *Customer) ApplyRemoteMetrics(m Metrics) bool {
	if m.CurrencyCode == "" {
		m.CurrencyCode = c.CurrencyCode
	}
	current := c.Metrics()
	if current.NumberOfOrders == m.NumberOfOrders && current.AmountSpent.Equal(m.AmountSpent) &&
		current.CurrencyCode == m.CurrencyCode && current.VerifiedEmail == m.VerifiedEmail {
		return false
	}
	c.NumberOfOrders = m.NumberOfOrders
	c.AmountSpent = m.AmountSpent
	if m.CurrencyCode != "" {
		c.CurrencyCode = m.CurrencyCode
	}
	c.VerifiedEmail = m.VerifiedEmail
	c.Touch()
	return true
}

// Metrics returns the current storefront counters
func (c *Customer) Metrics() Metrics {
	return Metrics{
		NumberOfOrders: c.NumberOfOrders,
		AmountSpent:    c.AmountSpent,
		CurrencyCode:   c.CurrencyCode,
		VerifiedEmail:  c.VerifiedEmail,
	}
}

// AssignCustCode sets the local customer code once; later calls are ignored
func (c *Customer) AssignCustCode(code string) {
	if c.CustCode == "" {
		c.CustCode = strings.TrimSpace(code)
	}
}

// HasRemoteID reports whether the customer is linked to the storefront
func (c *Customer) HasRemoteID() bool {
	return c.RemoteID != nil && *c.RemoteID != ""
}

// RemoteKey returns the remote identifier or an empty string
func (c *Customer) RemoteKey() string {
	if c.RemoteID == nil {
		return ""
	}
	return *c.RemoteID
}

// AssignRemoteID links the customer to its storefront record
func (c *Customer) AssignRemoteID(remoteID string) error {
	remoteID = strings.TrimSpace(remoteID)
	if remoteID == "" {
		return shared.ErrInvalidInput
	}
	if c.HasRemoteID() {
		if *c.RemoteID == remoteID {
			return nil
		}
		return ErrRemoteIDImmutable
	}
	c.RemoteID = &remoteID
	c.Touch()
	return nil
}

// DisplayName joins first and last name, falling back to email
func (c *Customer) DisplayName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Email
	}
	return name
}

// Profile returns the editable fields of the customer
func (c *Customer) Profile() Profile {
	return Profile{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Note:      c.Note,
		Tags:      c.Tags,
		Address: Address{
			Line:          c.AddressLine,
			City:          c.City,
			State:         c.State,
			Country:       c.Country,
			FormattedArea: c.FormattedArea,
		},
	}
}
