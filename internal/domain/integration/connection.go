package integration

import (
	"context"
	"strings"
	"time"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
)

// ShiprocketCredentials are the account login used to obtain an API token
type ShiprocketCredentials struct {
	Email    string
	Password string
}

// StoreConnection holds a tenant's storefront and courier credentials.
// There is at most one per tenant.
type StoreConnection struct {
	shared.BaseEntity
	TenantID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	ShopDomain         string     `gorm:"type:varchar(255)"`
	ShopAccessToken    string     `gorm:"type:varchar(255)"`
	ShopName           string     `gorm:"type:varchar(255)"`
	ShiprocketEmail    string     `gorm:"type:varchar(255)"`
	ShiprocketPassword string     `gorm:"type:varchar(255)"`
	LastVerifiedAt     *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (StoreConnection) TableName() string {
	return "store_connections"
}

// NewStoreConnection creates an empty connection for a tenant
func NewStoreConnection(tenantID uuid.UUID) *StoreConnection {
	return &StoreConnection{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
	}
}

// SetShopify replaces the storefront credentials. A blank token keeps the
// stored one so the secret does not have to be re-entered on every edit.
func (c *StoreConnection) SetShopify(domain, token string) {
	domain = NormalizeShopDomain(domain)
	if domain != c.ShopDomain {
		c.ShopName = ""
		c.LastVerifiedAt = nil
	}
	c.ShopDomain = domain
	if token = strings.TrimSpace(token); token != "" {
		c.ShopAccessToken = token
	}
	c.Touch()
}

// SetShiprocket replaces the courier credentials. A blank password keeps the
// stored one.
func (c *StoreConnection) SetShiprocket(email, password string) {
	c.ShiprocketEmail = strings.TrimSpace(email)
	if password != "" {
		c.ShiprocketPassword = password
	}
	c.Touch()
}

// MarkVerified records a successful connection test
func (c *StoreConnection) MarkVerified(shopName string) {
	now := time.Now()
	c.ShopName = shopName
	c.LastVerifiedAt = &now
	c.Touch()
}

// Shopify returns the storefront credentials or a *NotConfiguredError.
// A nil connection is not configured.
func (c *StoreConnection) Shopify() (ShopifyCredentials, error) {
	if c == nil {
		return ShopifyCredentials{}, &NotConfiguredError{Platform: PlatformShopify, Missing: []string{"shop_domain", "access_token"}}
	}
	var missing []string
	if c.ShopDomain == "" {
		missing = append(missing, "shop_domain")
	}
	if c.ShopAccessToken == "" {
		missing = append(missing, "access_token")
	}
	if len(missing) > 0 {
		return ShopifyCredentials{}, &NotConfiguredError{Platform: PlatformShopify, Missing: missing}
	}
	return ShopifyCredentials{ShopDomain: c.ShopDomain, AccessToken: c.ShopAccessToken}, nil
}

// Shiprocket returns the courier credentials or a *NotConfiguredError
func (c *StoreConnection) Shiprocket() (ShiprocketCredentials, error) {
	if c == nil {
		return ShiprocketCredentials{}, &NotConfiguredError{Platform: PlatformShiprocket, Missing: []string{"email", "password"}}
	}
	var missing []string
	if c.ShiprocketEmail == "" {
		missing = append(missing, "email")
	}
	if c.ShiprocketPassword == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return ShiprocketCredentials{}, &NotConfiguredError{Platform: PlatformShiprocket, Missing: missing}
	}
	return ShiprocketCredentials{Email: c.ShiprocketEmail, Password: c.ShiprocketPassword}, nil
}

// NormalizeShopDomain strips scheme, path and surrounding whitespace
// ("https://acme.myshopify.com/" -> "acme.myshopify.com")
func NormalizeShopDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.Index(d, "/"); i >= 0 {
		d = d[:i]
	}
	return d
}

// ConnectionRepository persists store connections
type ConnectionRepository interface {
	// FindByTenant returns shared.ErrNotFound when the tenant never saved one
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*StoreConnection, error)
	Save(ctx context.Context, conn *StoreConnection) error
}
