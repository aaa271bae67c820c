package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderbridge/backend/internal/domain/delivery"
	"github.com/orderbridge/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements delivery.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ delivery.OrderRepository = (*GormOrderRepository)(nil)

// FindByExternalID finds an order by its marketplace identifier within a tenant
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, provider delivery.ProviderCode, externalID string) (*delivery.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND provider = ? AND external_id = ?", tenantID, provider, externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, delivery.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Insert stores a new order. A conflict on the (tenant_id, provider,
// external_id) unique index is silently ignored, so two workers racing to
// create the same marketplace order converge to a single row.
func (r *GormOrderRepository) Insert(ctx context.Context, order *delivery.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "tenant_id"},
				{Name: "provider"},
				{Name: "external_id"},
			},
			DoNothing: true,
		}).
		Create(model).Error
}

// UpdateStatus sets the status of an existing order
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, tenantID uuid.UUID, orderID uuid.UUID, status delivery.OrderStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("tenant_id = ? AND id = ?", tenantID, orderID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return delivery.ErrOrderNotFound
	}
	return nil
}
