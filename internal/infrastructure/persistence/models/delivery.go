package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderbridge/backend/internal/domain/delivery"
)

// OrderModel is the persistence model for the Order domain entity.
// The composite unique index on (tenant_id, provider, external_id) is what
// makes concurrent creation of the same marketplace order converge to a
// single row.
type OrderModel struct {
	ID            uuid.UUID             `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_orders_tenant_provider_external,priority:1"`
	Provider      delivery.ProviderCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_orders_tenant_provider_external,priority:2"`
	ExternalID    string                `gorm:"type:varchar(100);not null;uniqueIndex:idx_orders_tenant_provider_external,priority:3"`
	Status        delivery.OrderStatus  `gorm:"type:varchar(20);not null;index:idx_orders_status"`
	CustomerName  string                `gorm:"type:varchar(255)"`
	TotalAmount   decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod string                `gorm:"type:varchar(50)"`
	SourceData    string                `gorm:"type:jsonb"`
	CreatedAt     time.Time             `gorm:"not null"`
	UpdatedAt     time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "delivery_orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *delivery.Order {
	return &delivery.Order{
		ID:            m.ID,
		TenantID:      m.TenantID,
		Provider:      m.Provider,
		ExternalID:    m.ExternalID,
		Status:        m.Status,
		CustomerName:  m.CustomerName,
		TotalAmount:   m.TotalAmount,
		PaymentMethod: m.PaymentMethod,
		SourceData:    m.SourceData,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *delivery.Order) {
	m.ID = o.ID
	m.TenantID = o.TenantID
	m.Provider = o.Provider
	m.ExternalID = o.ExternalID
	m.Status = o.Status
	m.CustomerName = o.CustomerName
	m.TotalAmount = o.TotalAmount
	m.PaymentMethod = o.PaymentMethod
	m.SourceData = o.SourceData
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *delivery.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// MerchantIntegrationModel is the persistence model for the
// MerchantIntegration domain entity.
type MerchantIntegrationModel struct {
	ID           uuid.UUID             `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_integrations_tenant_provider,priority:1"`
	Provider     delivery.ProviderCode `gorm:"type:varchar(20);not null;uniqueIndex:idx_integrations_tenant_provider,priority:2;index:idx_integrations_provider_enabled,priority:1"`
	ClientID     string                `gorm:"type:varchar(255);not null"`
	ClientSecret string                `gorm:"type:varchar(255);not null"`
	Enabled      bool                  `gorm:"not null;default:false;index:idx_integrations_provider_enabled,priority:2"`
	CreatedAt    time.Time             `gorm:"not null"`
	UpdatedAt    time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MerchantIntegrationModel) TableName() string {
	return "merchant_integrations"
}

// ToDomain converts the persistence model to a domain MerchantIntegration entity.
func (m *MerchantIntegrationModel) ToDomain() *delivery.MerchantIntegration {
	return &delivery.MerchantIntegration{
		ID:       m.ID,
		TenantID: m.TenantID,
		Provider: m.Provider,
		Credentials: delivery.Credentials{
			ClientID:     m.ClientID,
			ClientSecret: m.ClientSecret,
		},
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain MerchantIntegration entity.
func (m *MerchantIntegrationModel) FromDomain(mi *delivery.MerchantIntegration) {
	m.ID = mi.ID
	m.TenantID = mi.TenantID
	m.Provider = mi.Provider
	m.ClientID = mi.Credentials.ClientID
	m.ClientSecret = mi.Credentials.ClientSecret
	m.Enabled = mi.Enabled
	m.CreatedAt = mi.CreatedAt
	m.UpdatedAt = mi.UpdatedAt
}
