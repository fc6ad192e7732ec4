package ecommerce

import (
	"errors"
	"time"
)

// ShopifyConfig holds the settings shared by every tenant's storefront
// connection. Per-tenant credentials travel with each call.
type ShopifyConfig struct {
	// APIVersion is the Admin API version segment, e.g. "2024-01"
	APIVersion string
	// Scheme is "https" in production; tests point it at plain http
	Scheme string
	// Timeout bounds a single HTTP round trip
	Timeout time.Duration
	// RequestsPerSecond paces calls per shop
	RequestsPerSecond float64
	// PageSize is the "first" argument of paginated queries
	PageSize int
}

const (
	DefaultShopifyAPIVersion        = "2024-01"
	DefaultShopifyTimeout           = 30 * time.Second
	DefaultShopifyRequestsPerSecond = 2
	DefaultShopifyPageSize          = 50
	maxShopifyPageSize              = 250
)

// Errors for Shopify configuration
var (
	ErrShopifyConfigInvalidRate     = errors.New("shopify: requests per second must be positive")
	ErrShopifyConfigInvalidPageSize = errors.New("shopify: page size must be between 1 and 250")
)

// NewShopifyConfig creates a Shopify configuration with defaults
func NewShopifyConfig() *ShopifyConfig {
	return &ShopifyConfig{
		APIVersion:        DefaultShopifyAPIVersion,
		Scheme:            "https",
		Timeout:           DefaultShopifyTimeout,
		RequestsPerSecond: DefaultShopifyRequestsPerSecond,
		PageSize:          DefaultShopifyPageSize,
	}
}

// Validate fills zero values with defaults and rejects impossible settings
func (c *ShopifyConfig) Validate() error {
	if c.APIVersion == "" {
		c.APIVersion = DefaultShopifyAPIVersion
	}
	if c.Scheme == "" {
		c.Scheme = "https"
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultShopifyTimeout
	}
	if c.RequestsPerSecond < 0 {
		return ErrShopifyConfigInvalidRate
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = DefaultShopifyRequestsPerSecond
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultShopifyPageSize
	}
	if c.PageSize < 1 || c.PageSize > maxShopifyPageSize {
		return ErrShopifyConfigInvalidPageSize
	}
	return nil
}

// Endpoint returns the GraphQL Admin API URL for a shop domain
func (c *ShopifyConfig) Endpoint(shopDomain string) string {
	return c.Scheme + "://" + shopDomain + "/admin/api/" + c.APIVersion + "/graphql.json"
}
