package ecommerce

import (
	"errors"
	"time"
)

// ShiprocketConfig holds configuration for the Shiprocket courier API
type ShiprocketConfig struct {
	// BaseURL is the API root, without the /v1 prefix
	BaseURL string
	// Timeout bounds a single HTTP round trip
	Timeout time.Duration
	// TokenTTL is how long a login token is reused. Shiprocket tokens
	// are valid for ten days.
	TokenTTL time.Duration
	// PickupLocation is the pickup address nickname registered with Shiprocket
	PickupLocation string
	// Package dimensions sent when the order carries none (cm and kg)
	Length  float64
	Breadth float64
	Height  float64
	Weight  float64
}

const (
	ShiprocketProductionAPIURL = "https://apiv2.shiprocket.in"
	DefaultShiprocketTimeout   = 30 * time.Second
	DefaultShiprocketTokenTTL  = 9 * 24 * time.Hour
	DefaultPickupLocation      = "Primary"
)

// Errors for Shiprocket configuration
var (
	ErrShiprocketConfigInvalidTTL = errors.New("shiprocket: token ttl must be positive and under ten days")
)

// NewShiprocketConfig creates a Shiprocket configuration with defaults
func NewShiprocketConfig() *ShiprocketConfig {
	return &ShiprocketConfig{
		BaseURL:        ShiprocketProductionAPIURL,
		Timeout:        DefaultShiprocketTimeout,
		TokenTTL:       DefaultShiprocketTokenTTL,
		PickupLocation: DefaultPickupLocation,
		Length:         10,
		Breadth:        10,
		Height:         10,
		Weight:         0.5,
	}
}

// Validate fills zero values with defaults and rejects impossible settings
func (c *ShiprocketConfig) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = ShiprocketProductionAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultShiprocketTimeout
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = DefaultShiprocketTokenTTL
	}
	if c.TokenTTL < 0 || c.TokenTTL >= 10*24*time.Hour {
		return ErrShiprocketConfigInvalidTTL
	}
	if c.PickupLocation == "" {
		c.PickupLocation = DefaultPickupLocation
	}
	if c.Length <= 0 {
		c.Length = 10
	}
	if c.Breadth <= 0 {
		c.Breadth = 10
	}
	if c.Height <= 0 {
		c.Height = 10
	}
	if c.Weight <= 0 {
		c.Weight = 0.5
	}
	return nil
}
