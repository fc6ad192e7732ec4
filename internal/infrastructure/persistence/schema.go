package persistence

import (
	"fmt"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/trade"
	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order
func Models() []any {
	return []any{
		&catalog.Category{},
		&catalog.Vendor{},
		&catalog.Product{},
		&catalog.Variant{},
		&partner.Customer{},
		&trade.Order{},
		&integration.StoreConnection{},
		&integration.SyncRun{},
	}
}

// uniqueIndexes are the identity constraints the repositories rely on
var uniqueIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS uq_categories_tenant_name ON categories (tenant_id, normalized_name)",
	"CREATE UNIQUE INDEX IF NOT EXISTS uq_vendors_tenant_name ON vendors (tenant_id, normalized_name)",
	"CREATE UNIQUE INDEX IF NOT EXISTS uq_products_tenant_remote ON products (tenant_id, remote_id)",
	"CREATE UNIQUE INDEX IF NOT EXISTS uq_variants_product_sku ON product_variants (product_id, sku)",
	"CREATE UNIQUE INDEX IF NOT EXISTS uq_customers_tenant_remote ON customers (tenant_id, remote_id)",
	"CREATE UNIQUE INDEX IF NOT EXISTS uq_orders_tenant_remote ON orders (tenant_id, remote_order_id)",
}

// AutoMigrate creates or updates the schema from the entity definitions.
// Production databases are migrated with the SQL files under migrations/;
// this is used by tests and local development.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range uniqueIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
