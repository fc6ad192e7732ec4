package integration

import (
	"fmt"
	"strings"
)

// EntityKind is a class of record that takes part in synchronization
type EntityKind string

const (
	EntityKindProduct  EntityKind = "product"
	EntityKindCustomer EntityKind = "customer"
	EntityKindOrder    EntityKind = "order"
)

// AllEntityKinds lists every kind in pull order: products and customers
// before orders, so orders can link to the customers they reference.
var AllEntityKinds = []EntityKind{EntityKindProduct, EntityKindCustomer, EntityKindOrder}

// ParseEntityKind accepts singular and plural forms ("products", "order")
func ParseEntityKind(s string) (EntityKind, error) {
	k := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	switch EntityKind(k) {
	case EntityKindProduct, EntityKindCustomer, EntityKindOrder:
		return EntityKind(k), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntityKind, s)
}

// IsValid returns true if the kind is known
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindProduct, EntityKindCustomer, EntityKindOrder:
		return true
	}
	return false
}

// Pushable reports whether local records of this kind can be pushed.
// Orders only ever flow from the storefront.
func (k EntityKind) Pushable() bool {
	return k == EntityKindProduct || k == EntityKindCustomer
}

// String returns the string representation
func (k EntityKind) String() string {
	return string(k)
}
