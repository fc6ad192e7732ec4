package persistence

import (
	"context"

	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// FindByRemoteID finds the order mirrored from a storefront order
func (r *GormOrderRepository) FindByRemoteID(ctx context.Context, tenantID uuid.UUID, remoteOrderID string) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND remote_order_id = ?", tenantID, remoteOrderID).
		First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// FindAll returns a page of orders and the total matching count
func (r *GormOrderRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []trade.Order
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := paginate(query, filter, orderSort, "placed_at").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// UpdateLocalFields writes only the locally owned columns, so a concurrent
// pull refreshing remote statuses is never overwritten
func (r *GormOrderRepository) UpdateLocalFields(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).Model(&trade.Order{}).
		Where("tenant_id = ? AND id = ?", order.TenantID, order.ID).
		Updates(map[string]any{
			"erp_status":      order.ErpStatus,
			"shipment_status": order.ShipmentStatus,
			"shipment_ref":    order.ShipmentRef,
			"version":         order.Version,
			"updated_at":      order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR remote_order_id LIKE ? ESCAPE '\' OR LOWER(customer_details) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	for key, value := range filter.Filters {
		switch key {
		case "erp_status":
			query = query.Where("erp_status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "placed_from":
			query = query.Where("placed_at >= ?", value)
		case "placed_to":
			query = query.Where("placed_at < ?", value)
		}
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
