package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&customer).Error; err != nil {
		return nil, notFound(err)
	}
	return &customer, nil
}

// FindByRemoteID finds the customer linked to a storefront identifier
func (r *GormCustomerRepository) FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteID string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND remote_id = ?", tenantID, remoteID).
		First(&customer).Error; err != nil {
		return nil, notFound(err)
	}
	return &customer, nil
}

// FindByEmail finds a customer by email, ignoring case. The oldest match
// wins when several rows share an address.
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*partner.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, shared.ErrNotFound
	}
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND LOWER(email) = ?", tenantID, email).
		Order("created_at ASC").
		First(&customer).Error; err != nil {
		return nil, notFound(err)
	}
	return &customer, nil
}

// FindByIDs finds the customers with the given IDs
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]partner.Customer, error) {
	if len(ids) == 0 {
		return []partner.Customer{}, nil
	}
	var customers []partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// FindAll returns a page of customers and the total matching count
func (r *GormCustomerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&partner.Customer{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var customers []partner.Customer
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := paginate(query, filter, customerSort, "created_at").Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// ListIDs returns every customer ID of the tenant in creation order
func (r *GormCustomerRepository) ListIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&partner.Customer{}).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// SetRemoteID stores the storefront identifier assigned on first push
func (r *GormCustomerRepository) SetRemoteID(ctx context.Context, tenantID, id uuid.UUID, remoteID string) error {
	result := r.db.WithContext(ctx).Model(&partner.Customer{}).
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

// Delete removes a customer. Orders keep their captured buyer details and
// lose the link.
func (r *GormCustomerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&partner.Customer{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Table("orders").
			Where("tenant_id = ? AND customer_id = ?", tenantID, id).
			Update("customer_id", nil).Error
	})
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			`LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(cust_code) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern, pattern,
		)
	}
	if synced, ok := filter.Filters["synced"]; ok {
		if synced == true {
			query = query.Where("remote_id IS NOT NULL AND remote_id <> ''")
		} else {
			query = query.Where("remote_id IS NULL OR remote_id = ''")
		}
	}
	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
