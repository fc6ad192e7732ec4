package persistence

import (
	"context"
	"time"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Vendor").
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, sku ASC")
		})
}

// FindByID finds a product with its category, vendor and variants
func (r *GormProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.withRelations(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&product).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// FindByRemoteID finds the product linked to a storefront identifier
func (r *GormProductRepository) FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteID string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.withRelations(ctx).
		Where("tenant_id = ? AND remote_id = ?", tenantID, remoteID).
		First(&product).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// FindByIDs finds the products with the given IDs; missing IDs are skipped
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.withRelations(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll returns a page of products and the total matching count
func (r *GormProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	var products []catalog.Product
	if err := paginate(query, filter, productSort, "created_at").
		Preload("Category").
		Preload("Vendor").
		Preload("Variants").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListIDs returns every product ID of the tenant in creation order
func (r *GormProductRepository) ListIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save writes the product row and its variants in one transaction.
// Category and vendor rows are referenced by ID and never written here.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(product).Error; err != nil {
			return err
		}
		for i := range product.Variants {
			product.Variants[i].ProductID = product.ID
			if err := tx.Save(&product.Variants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SetRemoteID stores the storefront identifier assigned on first push
func (r *GormProductRepository) SetRemoteID(ctx context.Context, tenantID, id uuid.UUID, remoteID string) error {
	result := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]any{"remote_id": remoteID, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetVariantRemoteIDs stores storefront variant identifiers keyed by SKU.
// SKUs without a local variant are ignored.
func (r *GormProductRepository) SetVariantRemoteIDs(ctx context.Context, productID uuid.UUID, remoteIDsBySKU map[string]string) error {
	if len(remoteIDsBySKU) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for sku, remoteID := range remoteIDsBySKU {
			if err := tx.Model(&catalog.Variant{}).
				Where("product_id = ? AND sku = ?", productID, sku).
				Updates(map[string]any{"remote_id": remoteID, "updated_at": now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a product and its variants
func (r *GormProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&catalog.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&catalog.Variant{}).Error
	})
}

// applyFilter applies search and filter options without pagination
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR id IN (SELECT product_id FROM product_variants WHERE LOWER(sku) LIKE ? ESCAPE '\')`,
			pattern, pattern,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			query = query.Where("category_id = ?", value)
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "stock_status":
			query = query.Where("stock_status = ?", value)
		case "synced":
			if value == true {
				query = query.Where("remote_id IS NOT NULL AND remote_id <> ''")
			} else {
				query = query.Where("remote_id IS NULL OR remote_id = ''")
			}
		}
	}
	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
