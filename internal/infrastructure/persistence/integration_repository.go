package persistence

import (
	"context"

	"github.com/erp/storesync/internal/domain/integration"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormConnectionRepository implements ConnectionRepository using GORM
type GormConnectionRepository struct {
	db *gorm.DB
}

// NewGormConnectionRepository creates a new GormConnectionRepository
func NewGormConnectionRepository(db *gorm.DB) *GormConnectionRepository {
	return &GormConnectionRepository{db: db}
}

// FindByTenant returns the tenant's store connection
func (r *GormConnectionRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*integration.StoreConnection, error) {
	var conn integration.StoreConnection
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&conn).Error; err != nil {
		return nil, notFound(err)
	}
	return &conn, nil
}

// Save upserts the connection; a tenant has at most one
func (r *GormConnectionRepository) Save(ctx context.Context, conn *integration.StoreConnection) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"shop_domain", "shop_access_token", "shop_name",
			"shiprocket_email", "shiprocket_password", "last_verified_at", "updated_at",
		}),
	}).Create(conn).Error
}

// Ensure GormConnectionRepository implements ConnectionRepository
var _ integration.ConnectionRepository = (*GormConnectionRepository)(nil)

// GormSyncRunRepository implements SyncRunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new GormSyncRunRepository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Save records a finished run
func (r *GormSyncRunRepository) Save(ctx context.Context, run *integration.SyncRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FindByID finds a run by its ID
func (r *GormSyncRunRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*integration.SyncRun, error) {
	var run integration.SyncRun
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&run).Error; err != nil {
		return nil, notFound(err)
	}
	return &run, nil
}

// FindAll returns a page of runs, newest first by default
func (r *GormSyncRunRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter integration.SyncRunFilter) ([]integration.SyncRun, int64, error) {
	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&integration.SyncRun{}).Where("tenant_id = ?", tenantID), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []integration.SyncRun
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := paginate(query, filter.Filter, syncRunSort, "started_at").
		Omit("failures").
		Find(&runs).Error; err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func (r *GormSyncRunRepository) applyFilter(query *gorm.DB, filter integration.SyncRunFilter) *gorm.DB {
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if filter.Direction != "" {
		query = query.Where("direction = ?", filter.Direction)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return query
}

// Ensure GormSyncRunRepository implements SyncRunRepository
var _ integration.SyncRunRepository = (*GormSyncRunRepository)(nil)
