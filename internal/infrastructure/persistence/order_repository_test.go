package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orderbridge/backend/internal/domain/delivery"
)

// newMockOrderRepository creates a GormOrderRepository with a mocked SQL connection
func newMockOrderRepository(t *testing.T) (*GormOrderRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormOrderRepository(gormDB), mock, mockDB
}

func TestGormOrderRepository_FindByExternalID(t *testing.T) {
	t.Run("finds existing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		tenantID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "provider", "external_id", "status", "customer_name", "total_amount", "payment_method", "source_data"}).
			AddRow(orderID, tenantID, "MARKETPLACE", "MKT-1001", "PENDING", "Ada Lovelace", decimal.NewFromFloat(42.50), "CARD", "{}")

		mock.ExpectQuery(`SELECT \* FROM "delivery_orders" WHERE tenant_id = \$1 AND provider = \$2 AND external_id = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, delivery.ProviderMarketplace, "MKT-1001", 1).
			WillReturnRows(rows)

		order, err := repo.FindByExternalID(context.Background(), tenantID, delivery.ProviderMarketplace, "MKT-1001")

		assert.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, orderID, order.ID)
		assert.Equal(t, "MKT-1001", order.ExternalID)
		assert.Equal(t, delivery.OrderStatusPending, order.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrOrderNotFound for missing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "delivery_orders" WHERE tenant_id = \$1 AND provider = \$2 AND external_id = \$3 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, delivery.ProviderMarketplace, "MKT-MISSING", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		order, err := repo.FindByExternalID(context.Background(), tenantID, delivery.ProviderMarketplace, "MKT-MISSING")

		assert.Nil(t, order)
		assert.ErrorIs(t, err, delivery.ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_Insert(t *testing.T) {
	t.Run("inserts new order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := &delivery.Order{
			ID:          uuid.New(),
			TenantID:    uuid.New(),
			Provider:    delivery.ProviderMarketplace,
			ExternalID:  "MKT-2001",
			Status:      delivery.OrderStatusPending,
			TotalAmount: decimal.NewFromInt(10),
		}

		mock.ExpectExec(`INSERT INTO "delivery_orders" .* ON CONFLICT \("tenant_id","provider","external_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Insert(context.Background(), order)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate insert is not an error", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		order := &delivery.Order{
			ID:         uuid.New(),
			TenantID:   uuid.New(),
			Provider:   delivery.ProviderMarketplace,
			ExternalID: "MKT-2001",
			Status:     delivery.OrderStatusPending,
		}

		// Conflicting row already exists: DO NOTHING affects zero rows
		mock.ExpectExec(`INSERT INTO "delivery_orders" .* ON CONFLICT \("tenant_id","provider","external_id"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Insert(context.Background(), order)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormOrderRepository_UpdateStatus(t *testing.T) {
	t.Run("updates status of existing order", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectExec(`UPDATE "delivery_orders" SET "status"=\$1,"updated_at"=\$2 WHERE tenant_id = \$3 AND id = \$4`).
			WithArgs(delivery.OrderStatusDispatched, sqlmock.AnyArg(), tenantID, orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), tenantID, orderID, delivery.OrderStatusDispatched)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrOrderNotFound when no row matches", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		orderID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectExec(`UPDATE "delivery_orders" SET "status"=\$1,"updated_at"=\$2 WHERE tenant_id = \$3 AND id = \$4`).
			WithArgs(delivery.OrderStatusCompleted, sqlmock.AnyArg(), tenantID, orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), tenantID, orderID, delivery.OrderStatusCompleted)

		assert.ErrorIs(t, err, delivery.ErrOrderNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
