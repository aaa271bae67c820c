package delivery

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Order
// ---------------------------------------------------------------------------

// Order is the locally stored copy of a marketplace order. ExternalID is
// unique per tenant+provider; the engine never creates a second Order for
// an external ID it has already stored.
type Order struct {
	// ID is the internal identifier
	ID uuid.UUID
	// TenantID is the tenant this order belongs to
	TenantID uuid.UUID
	// Provider identifies the source system
	Provider ProviderCode
	// ExternalID is the marketplace order identifier
	ExternalID string
	// Status is the current lifecycle status
	Status OrderStatus
	// CustomerName is the buyer's display name
	CustomerName string
	// TotalAmount is the order total
	TotalAmount decimal.Decimal
	// PaymentMethod is the marketplace payment method label
	PaymentMethod string
	// SourceData is the opaque marketplace payload snapshot (JSON)
	SourceData string
	// CreatedAt is when the local record was created
	CreatedAt time.Time
	// UpdatedAt is when the local record was last updated
	UpdatedAt time.Time
}

// NewOrderFromMarketplace builds a local Order from a marketplace payload
// and the event code that first surfaced it.
func NewOrderFromMarketplace(tenantID uuid.UUID, src *MarketplaceOrder, code EventCode) *Order {
	return &Order{
		ID:            uuid.New(),
		TenantID:      tenantID,
		Provider:      ProviderMarketplace,
		ExternalID:    src.ID,
		Status:        code.InitialStatus(),
		CustomerName:  src.CustomerName,
		TotalAmount:   src.TotalAmount,
		PaymentMethod: src.PaymentMethod,
		SourceData:    src.RawData,
	}
}

// ---------------------------------------------------------------------------
// MerchantIntegration
// ---------------------------------------------------------------------------

// MerchantIntegration is a tenant's connection to the marketplace: stored
// credentials plus an enabled flag. It is owned by the tenant-facing UI and
// read-only to the sync engine.
type MerchantIntegration struct {
	// ID is the internal identifier
	ID uuid.UUID
	// TenantID is the tenant this integration belongs to
	TenantID uuid.UUID
	// Provider identifies the external system
	Provider ProviderCode
	// Credentials is the client-credentials pair for the auth endpoint
	Credentials Credentials
	// Enabled indicates whether the engine should sync this tenant
	Enabled bool
	// CreatedAt is when the integration was created
	CreatedAt time.Time
	// UpdatedAt is when the integration was last updated
	UpdatedAt time.Time
}

// ---------------------------------------------------------------------------
// Repository Interfaces
// ---------------------------------------------------------------------------

// OrderRepository persists locally synced orders.
type OrderRepository interface {
	// FindByExternalID finds an order by its marketplace identifier within
	// a tenant. Returns ErrOrderNotFound when absent.
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, provider ProviderCode, externalID string) (*Order, error)

	// Insert stores a new order. The insert is conflict-tolerant on
	// (tenant_id, provider, external_id): a concurrent duplicate creation
	// converges to exactly one row and is not an error.
	Insert(ctx context.Context, order *Order) error

	// UpdateStatus sets the status of an existing order.
	UpdateStatus(ctx context.Context, tenantID uuid.UUID, orderID uuid.UUID, status OrderStatus) error
}

// MerchantIntegrationRepository reads tenant marketplace connections.
// The engine never writes integrations.
type MerchantIntegrationRepository interface {
	// ListEnabledByProvider returns all enabled integrations for a provider.
	ListEnabledByProvider(ctx context.Context, provider ProviderCode) ([]MerchantIntegration, error)
}
