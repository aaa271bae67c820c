package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/orderbridge/backend/internal/domain/delivery"
	"github.com/orderbridge/backend/internal/infrastructure/persistence/models"
)

// GormMerchantIntegrationRepository implements delivery.MerchantIntegrationRepository
// using GORM. The sync engine only reads integrations; writes belong to the
// tenant-facing surface.
type GormMerchantIntegrationRepository struct {
	db *gorm.DB
}

// NewGormMerchantIntegrationRepository creates a new GormMerchantIntegrationRepository
func NewGormMerchantIntegrationRepository(db *gorm.DB) *GormMerchantIntegrationRepository {
	return &GormMerchantIntegrationRepository{db: db}
}

var _ delivery.MerchantIntegrationRepository = (*GormMerchantIntegrationRepository)(nil)

// ListEnabledByProvider returns all enabled integrations for a provider
func (r *GormMerchantIntegrationRepository) ListEnabledByProvider(ctx context.Context, provider delivery.ProviderCode) ([]delivery.MerchantIntegration, error) {
	var integrationModels []models.MerchantIntegrationModel
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND enabled = ?", provider, true).
		Order("created_at ASC").
		Find(&integrationModels).Error; err != nil {
		return nil, err
	}

	integrations := make([]delivery.MerchantIntegration, len(integrationModels))
	for i, model := range integrationModels {
		integrations[i] = *model.ToDomain()
	}
	return integrations, nil
}
