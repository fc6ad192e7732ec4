package integration

import (
	"fmt"
	"strings"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/shopspring/decimal"
)

const (
	// DefaultVariantTitle is the storefront's title for single-variant products
	DefaultVariantTitle = "Default Title"
	// fallbackSKUPrefix builds a SKU for remote variants that have none
	fallbackSKUPrefix = "SHOPIFY-"
)

// optionalAmount parses a remote money string; blank means zero
func optionalAmount(field, raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	d, err := valueobject.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

// variantSpecs converts remote variants. tracked is true when the storefront
// reported inventory for at least one variant.
func variantSpecs(remote []integration.RemoteVariant) (specs []catalog.VariantSpec, tracked bool, err error) {
	specs = make([]catalog.VariantSpec, 0, len(remote))
	for i, rv := range remote {
		price, err := optionalAmount(fmt.Sprintf("variant %d price", i+1), rv.Price)
		if err != nil {
			return nil, false, err
		}
		qty := 0
		if rv.InventoryQuantity != nil {
			tracked = true
			qty = max(*rv.InventoryQuantity, 0)
		}
		title := strings.TrimSpace(rv.Title)
		if title == "" {
			title = DefaultVariantTitle
		}
		sku := strings.TrimSpace(rv.SKU)
		if sku == "" && rv.ID != "" {
			sku = fallbackSKUPrefix + integration.NumericID(rv.ID)
		}
		specs = append(specs, catalog.VariantSpec{
			RemoteID:          rv.ID,
			Type:              rv.Option,
			Title:             title,
			SKU:               sku,
			Price:             price,
			InventoryQuantity: qty,
			IsAvailable:       rv.AvailableForSale,
		})
	}
	return specs, tracked, nil
}

// customerProfile maps a remote customer onto the editable profile
func customerProfile(rc integration.RemoteCustomer) partner.Profile {
	p := partner.Profile{
		FirstName: rc.FirstName,
		LastName:  rc.LastName,
		Email:     rc.Email,
		Phone:     rc.Phone,
		Note:      rc.Note,
		Tags:      rc.Tags,
	}
	if a := rc.DefaultAddress; a != nil {
		p.Address = partner.Address{
			Line:    a.Address1,
			City:    a.City,
			State:   a.Province,
			Country: a.Country,
		}
		if p.Phone == "" {
			p.Phone = a.Phone
		}
	}
	p.Address.FormattedArea = rc.FormattedAddress
	return p
}

func customerMetrics(rc integration.RemoteCustomer) (partner.Metrics, error) {
	spent, err := optionalAmount("amount_spent", rc.AmountSpent)
	if err != nil {
		return partner.Metrics{}, err
	}
	return partner.Metrics{
		NumberOfOrders: max(rc.NumberOfOrders, 0),
		AmountSpent:    spent,
		CurrencyCode:   rc.CurrencyCode,
		VerifiedEmail:  rc.VerifiedEmail,
	}, nil
}

// orderDetails maps a remote order. A blank total is left invalid so that
// order creation rejects it; a malformed amount is an error.
func orderDetails(ro integration.RemoteOrder) (trade.OrderDetails, error) {
	d := trade.OrderDetails{
		RemoteOrderID:     integration.NumericID(ro.ID),
		Name:              ro.Name,
		PlacedAt:          ro.CreatedAt,
		CurrencyCode:      ro.CurrencyCode,
		PaymentStatus:     strings.ToLower(ro.FinancialStatus),
		FulfillmentStatus: strings.ToLower(ro.FulfillmentStatus),
		ShippingAddress:   ro.ShippingAddress,
		BillingAddress:    ro.BillingAddress,
	}
	if strings.TrimSpace(ro.TotalPrice) != "" {
		total, err := valueobject.ParseAmount(ro.TotalPrice)
		if err != nil {
			return d, fmt.Errorf("total_price: %w", err)
		}
		d.TotalPrice = decimal.NewNullDecimal(total)
	}
	var err error
	if d.SubtotalPrice, err = optionalAmount("subtotal_price", ro.SubtotalPrice); err != nil {
		return d, err
	}
	if d.TotalTax, err = optionalAmount("total_tax", ro.TotalTax); err != nil {
		return d, err
	}
	if d.TotalShipping, err = optionalAmount("total_shipping", ro.TotalShipping); err != nil {
		return d, err
	}

	d.LineItems = make(trade.LineItems, 0, len(ro.LineItems))
	for i, li := range ro.LineItems {
		price, err := optionalAmount(fmt.Sprintf("line item %d price", i+1), li.Price)
		if err != nil {
			return d, err
		}
		d.LineItems = append(d.LineItems, trade.LineItem{
			Title:        li.Title,
			VariantTitle: li.VariantTitle,
			SKU:          li.SKU,
			Quantity:     li.Quantity,
			Price:        price,
		})
	}

	name := ro.ShippingAddress.FullName()
	if name == "" {
		name = ro.BillingAddress.FullName()
	}
	phone := ro.Phone
	if phone == "" {
		phone = ro.ShippingAddress.Phone
	}
	d.Customer = trade.CustomerDetails{Name: name, Email: strings.ToLower(strings.TrimSpace(ro.Email)), Phone: phone}
	return d, nil
}

// productPayload renders a local product for the storefront
func productPayload(p *catalog.Product) integration.RemoteProduct {
	status := "ACTIVE"
	if p.StockStatus == catalog.StockStatusDiscontinued {
		status = "ARCHIVED"
	}
	out := integration.RemoteProduct{
		ID:          p.RemoteKey(),
		Title:       p.Title,
		Description: p.Description,
		ProductType: p.CategoryName(),
		Vendor:      p.VendorName(),
		Status:      status,
		Tags:        []string(p.Tags),
		Variants:    make([]integration.RemoteVariant, 0, len(p.Variants)),
	}
	for _, v := range p.Variants {
		qty := v.InventoryQuantity
		rv := integration.RemoteVariant{
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             valueobject.FormatAmount(v.Price),
			InventoryQuantity: &qty,
			Taxable:           v.TaxRate.IsPositive(),
			AvailableForSale:  v.IsAvailable,
			Option:            v.Type,
		}
		if v.RemoteID != nil {
			rv.ID = *v.RemoteID
		}
		out.Variants = append(out.Variants, rv)
	}
	return out
}

// customerPayload renders a local customer for the storefront
func customerPayload(c *partner.Customer) integration.RemoteCustomer {
	out := integration.RemoteCustomer{
		ID:        c.RemoteKey(),
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Note:      c.Note,
		Tags:      []string(c.Tags),
	}
	if c.AddressLine != "" || c.City != "" || c.Country != "" {
		out.DefaultAddress = &valueobject.Address{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Address1:  c.AddressLine,
			City:      c.City,
			Province:  c.State,
			Country:   c.Country,
			Phone:     c.Phone,
		}
	}
	return out
}
