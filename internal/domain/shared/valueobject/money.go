package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a remote monetary value into a fixed-point decimal.
// Accepted inputs are strings, json.Number and integer types. Floats are
// rejected so that amounts never pass through a lossy binary form.
func ParseAmount(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, fmt.Errorf("amount is missing")
	case decimal.Decimal:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, fmt.Errorf("amount is empty")
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid amount %q: %w", x.String(), err)
		}
		return d, nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
	}
}

// ParseAmountOrZero is ParseAmount with a zero fallback for optional fields
func ParseAmountOrZero(v any) decimal.Decimal {
	d, err := ParseAmount(v)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders a decimal the way the storefront API expects money
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
