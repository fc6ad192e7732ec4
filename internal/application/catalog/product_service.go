package catalog

import (
	"context"
	"strings"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeleteProductAction is the confirmation action for product deletion
const DeleteProductAction = "delete_product"

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	vendorRepo   catalog.VendorRepository
	gate         integration.ConfirmationGate
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	vendorRepo catalog.VendorRepository,
	gate integration.ConfirmationGate,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		vendorRepo:   vendorRepo,
		gate:         gate,
		logger:       logger,
	}
}

// Create creates a new product with its variants
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if err := catalog.ValidateTitle(req.Title); err != nil {
		return nil, err
	}
	specs := variantSpecs(req.Variants)
	if err := catalog.ValidateVariantSpecs(specs); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.LookupOrCreate(ctx, tenantID, req.Category)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(tenantID, req.Title, category.ID)
	if err != nil {
		return nil, err
	}
	if err := product.AssignCategory(category, catalog.SourceLocal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Vendor) != "" {
		vendor, err := s.vendorRepo.LookupOrCreate(ctx, tenantID, req.Vendor)
		if err != nil {
			return nil, err
		}
		product.AssignVendor(vendor, catalog.SourceLocal)
	}

	product.SetDescription(req.Description)
	product.SetTags(req.Tags)
	price, taxRate := product.Price, product.TaxRate
	if req.Price != nil {
		price = *req.Price
	}
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if err := product.SetPricing(price, taxRate); err != nil {
		return nil, err
	}
	if req.StockStatus != "" {
		if err := product.SetStockStatus(catalog.StockStatus(req.StockStatus)); err != nil {
			return nil, err
		}
	}
	if _, err := product.MergeVariants(specs, false); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a page of products
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) (shared.Paginated[ProductResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.CategoryID != "" {
		f.Filters["category_id"] = filter.CategoryID
	}
	if filter.StockStatus != "" {
		f.Filters["stock_status"] = filter.StockStatus
	}
	if filter.Synced != nil {
		f.Filters["synced"] = *filter.Synced
	}

	products, total, err := s.productRepo.FindAll(ctx, tenantID, f)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.NewPaginated(ToProductResponses(products), total, f.Page, f.PageSize), nil
}

// Update applies a local edit. Variants are merged by SKU; variants not
// named in the request are kept.
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := product.Rename(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		product.SetDescription(*req.Description)
	}
	if req.Category != nil {
		category, err := s.categoryRepo.LookupOrCreate(ctx, tenantID, *req.Category)
		if err != nil {
			return nil, err
		}
		if err := product.AssignCategory(category, catalog.SourceLocal); err != nil {
			return nil, err
		}
	}
	if req.Vendor != nil {
		if strings.TrimSpace(*req.Vendor) == "" {
			product.AssignVendor(nil, catalog.SourceLocal)
		} else {
			vendor, err := s.vendorRepo.LookupOrCreate(ctx, tenantID, *req.Vendor)
			if err != nil {
				return nil, err
			}
			product.AssignVendor(vendor, catalog.SourceLocal)
		}
	}
	if req.Price != nil || req.TaxRate != nil {
		price, taxRate := product.Price, product.TaxRate
		if req.Price != nil {
			price = *req.Price
		}
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}
		if err := product.SetPricing(price, taxRate); err != nil {
			return nil, err
		}
	}
	if req.StockStatus != nil {
		if err := product.SetStockStatus(catalog.StockStatus(*req.StockStatus)); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		product.SetTags(req.Tags)
	}
	if len(req.Variants) > 0 {
		if _, err := product.MergeVariants(variantSpecs(req.Variants), false); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product and its variants after the user confirmed the
// action with a one-time code. The storefront copy is not touched.
func (s *ProductService) Delete(ctx context.Context, tenantID, userID, productID uuid.UUID, code string) error {
	if strings.TrimSpace(code) == "" {
		return integration.ErrConfirmationRequired
	}
	if _, err := s.productRepo.FindByID(ctx, tenantID, productID); err != nil {
		return err
	}
	if err := s.gate.Verify(ctx, tenantID, userID, DeleteProductAction, code); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, tenantID, productID); err != nil {
		return err
	}
	s.logger.Info("Product deleted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", productID.String()),
	)
	return nil
}

// ListCategories returns the tenant's categories
func (s *ProductService) ListCategories(ctx context.Context, tenantID uuid.UUID) ([]NamedResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]NamedResponse, len(categories))
	for i, c := range categories {
		out[i] = NamedResponse{ID: c.ID, Name: c.Name}
	}
	return out, nil
}

// ListVendors returns the tenant's vendors
func (s *ProductService) ListVendors(ctx context.Context, tenantID uuid.UUID) ([]NamedResponse, error) {
	vendors, err := s.vendorRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]NamedResponse, len(vendors))
	for i, v := range vendors {
		out[i] = NamedResponse{ID: v.ID, Name: v.Name}
	}
	return out, nil
}
