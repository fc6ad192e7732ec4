package integration

import (
	"context"
	"strings"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/google/uuid"
)

func (r *Reconciler) mergeProduct(ctx context.Context, tenantID uuid.UUID, rp integration.RemoteProduct) integration.RecordResult {
	title := strings.TrimSpace(rp.Title)
	if title == "" {
		return skipped(rp.ID, catalog.ErrProductTitleRequired)
	}
	specs, tracked, err := variantSpecs(rp.Variants)
	if err != nil {
		return skipped(rp.ID, err)
	}

	product, err := r.stores.Products.FindByRemoteID(ctx, tenantID, rp.ID)
	if err != nil && !isNotFound(err) {
		return failed(rp.ID, err)
	}

	outcome := integration.OutcomeUpdated
	if product == nil {
		outcome = integration.OutcomeCreated
		if strings.TrimSpace(rp.ProductType) == "" {
			return skipped(rp.ID, catalog.ErrCategoryRequired)
		}
		category, err := r.stores.Categories.LookupOrCreate(ctx, tenantID, rp.ProductType)
		if err != nil {
			return failed(rp.ID, err)
		}
		product, err = catalog.NewProduct(tenantID, title, category.ID)
		if err != nil {
			return skipped(rp.ID, err)
		}
		if err := product.AssignCategory(category, catalog.SourceRemote); err != nil {
			return skipped(rp.ID, err)
		}
		if err := product.AssignRemoteID(rp.ID); err != nil {
			return skipped(rp.ID, err)
		}
		product.MarkRemoteSourced(catalog.RemoteTitle)
	} else {
		if _, err := product.ApplyRemoteTitle(title); err != nil {
			return skipped(rp.ID, err)
		}
		if strings.TrimSpace(rp.ProductType) != "" && product.AcceptsRemoteCategory() {
			category, err := r.stores.Categories.LookupOrCreate(ctx, tenantID, rp.ProductType)
			if err != nil {
				return failed(rp.ID, err)
			}
			if err := product.AssignCategory(category, catalog.SourceRemote); err != nil {
				return skipped(rp.ID, err)
			}
		}
	}

	if strings.TrimSpace(rp.Vendor) != "" && product.AcceptsRemoteVendor() {
		vendor, err := r.stores.Vendors.LookupOrCreate(ctx, tenantID, rp.Vendor)
		if err != nil {
			return failed(rp.ID, err)
		}
		product.AssignVendor(vendor, catalog.SourceRemote)
	}
	product.ApplyRemoteDescription(rp.Description)
	product.ApplyRemoteTags(rp.Tags)

	// Tax rates are local-only; carry them over so remote specs do not
	// reset them.
	for i := range specs {
		if existing := product.FindVariantBySKU(specs[i].SKU); existing != nil {
			specs[i].TaxRate = existing.TaxRate
			specs[i].Description = existing.Description
		} else {
			specs[i].TaxRate = product.TaxRate
		}
	}
	if _, err := product.MergeVariants(specs, true); err != nil {
		return skipped(rp.ID, err)
	}
	if len(specs) > 0 {
		if err := product.SetPricing(specs[0].Price, product.TaxRate); err != nil {
			return skipped(rp.ID, err)
		}
	}
	if err := product.SetStockStatus(catalog.StockStatusFromInventory(rp.Status, product.TotalInventory(), tracked)); err != nil {
		return skipped(rp.ID, err)
	}

	if err := r.stores.Products.Save(ctx, product); err != nil {
		return failed(rp.ID, err)
	}
	return succeeded(rp.ID, product.ID, outcome)
}
