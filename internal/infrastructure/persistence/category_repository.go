package persistence

import (
	"context"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var nameConflict = clause.OnConflict{
	Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "normalized_name"}},
	DoNothing: true,
}

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// FindByName finds a category by the normalized form of name
func (r *GormCategoryRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND normalized_name = ?", tenantID, valueobject.NormalizeName(name)).
		First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// FindAll lists the tenant's categories by name
func (r *GormCategoryRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// LookupOrCreate inserts the category unless one with the same normalized
// name exists, then reads back whichever row won
func (r *GormCategoryRepository) LookupOrCreate(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Category, error) {
	candidate, err := catalog.NewCategory(tenantID, name)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Clauses(nameConflict).Create(candidate).Error; err != nil {
		return nil, err
	}
	return r.FindByName(ctx, tenantID, candidate.Name)
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)

// GormVendorRepository implements VendorRepository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Vendor, error) {
	var vendor catalog.Vendor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&vendor).Error; err != nil {
		return nil, notFound(err)
	}
	return &vendor, nil
}

// FindByName finds a vendor by the normalized form of name
func (r *GormVendorRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Vendor, error) {
	var vendor catalog.Vendor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND normalized_name = ?", tenantID, valueobject.NormalizeName(name)).
		First(&vendor).Error; err != nil {
		return nil, notFound(err)
	}
	return &vendor, nil
}

// FindAll lists the tenant's vendors by name
func (r *GormVendorRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.Vendor, error) {
	var vendors []catalog.Vendor
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

// LookupOrCreate returns the vendor with the normalized name, creating it if absent
func (r *GormVendorRepository) LookupOrCreate(ctx context.Context, tenantID uuid.UUID, name string) (*catalog.Vendor, error) {
	candidate, err := catalog.NewVendor(tenantID, name)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Clauses(nameConflict).Create(candidate).Error; err != nil {
		return nil, err
	}
	return r.FindByName(ctx, tenantID, candidate.Name)
}

// Ensure GormVendorRepository implements VendorRepository
var _ catalog.VendorRepository = (*GormVendorRepository)(nil)
