package catalog

import "strings"

// StockStatus is the closed set of stock states a product can be in
type StockStatus string

const (
	StockStatusInStock      StockStatus = "in_stock"
	StockStatusOutOfStock   StockStatus = "out_of_stock"
	StockStatusLowStock     StockStatus = "low_stock"
	StockStatusPreOrder     StockStatus = "pre_order"
	StockStatusDiscontinued StockStatus = "discontinued"
)

// DefaultStockStatus is used when a remote value has no mapping
const DefaultStockStatus = StockStatusInStock

// LowStockThreshold is the total inventory at or below which a stocked
// product is reported as low stock
const LowStockThreshold = 5

var stockStatusLookup = map[string]StockStatus{
	"in_stock":     StockStatusInStock,
	"instock":      StockStatusInStock,
	"available":    StockStatusInStock,
	"active":       StockStatusInStock,
	"out_of_stock": StockStatusOutOfStock,
	"outofstock":   StockStatusOutOfStock,
	"sold_out":     StockStatusOutOfStock,
	"low_stock":    StockStatusLowStock,
	"pre_order":    StockStatusPreOrder,
	"preorder":     StockStatusPreOrder,
	"backorder":    StockStatusPreOrder,
	"discontinued": StockStatusDiscontinued,
	"archived":     StockStatusDiscontinued,
}

// IsValid checks if the stock status is one of the known values
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusInStock, StockStatusOutOfStock, StockStatusLowStock,
		StockStatusPreOrder, StockStatusDiscontinued:
		return true
	}
	return false
}

// String returns the string representation
func (s StockStatus) String() string {
	return string(s)
}

// MapStockStatus maps free-text remote statuses onto the closed enum.
// Unknown values fall back to DefaultStockStatus.
func MapStockStatus(raw string) StockStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if s, ok := stockStatusLookup[key]; ok {
		return s
	}
	return DefaultStockStatus
}

// StockStatusFromInventory derives a stock status from the storefront's
// product status and its summed variant inventory.
func StockStatusFromInventory(remoteStatus string, totalInventory int, tracked bool) StockStatus {
	switch MapStockStatus(remoteStatus) {
	case StockStatusDiscontinued:
		return StockStatusDiscontinued
	case StockStatusPreOrder:
		return StockStatusPreOrder
	}
	if !tracked {
		return StockStatusInStock
	}
	switch {
	case totalInventory <= 0:
		return StockStatusOutOfStock
	case totalInventory <= LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}
