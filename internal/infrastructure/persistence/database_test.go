package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestDatabase_PingAndClose(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	db := &Database{DB: gormDB}

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(sql.ErrConnDone)
	mock.ExpectClose()

	assert.NoError(t, db.PingContext(context.Background()))
	assert.ErrorIs(t, db.PingContext(context.Background()), sql.ErrConnDone)
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateLocalFieldsSQL(t *testing.T) {
	t.Run("writes only local columns", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db.DB)

		order := &trade.Order{ErpStatus: trade.ErpStatusShipped, ShipmentRef: "SR-1"}
		order.ID = uuid.New()
		order.TenantID = uuid.New()

		mock.ExpectExec(`UPDATE "orders" SET "erp_status"=\$1,"shipment_ref"=\$2,"shipment_status"=\$3,"updated_at"=\$4,"version"=\$5 WHERE tenant_id = \$6 AND id = \$7`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateLocalFields(context.Background(), order))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a missing order", func(t *testing.T) {
		db, mock, mockDB := newMockDatabase(t)
		defer mockDB.Close()
		repo := NewGormOrderRepository(db.DB)

		order := &trade.Order{ErpStatus: trade.ErpStatusShipped}
		order.ID = uuid.New()
		order.TenantID = uuid.New()

		mock.ExpectExec(`UPDATE "orders"`).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateLocalFields(context.Background(), order), shared.ErrNotFound)
	})
}
