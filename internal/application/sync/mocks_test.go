package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/orderbridge/backend/internal/domain/delivery"
)

// MockMarketplace is a mock implementation of delivery.Marketplace
type MockMarketplace struct {
	mock.Mock
}

func (m *MockMarketplace) Authenticate(ctx context.Context, creds delivery.Credentials) (*delivery.AccessToken, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.AccessToken), args.Error(1)
}

func (m *MockMarketplace) PollEvents(ctx context.Context, token *delivery.AccessToken) ([]delivery.Event, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]delivery.Event), args.Error(1)
}

func (m *MockMarketplace) GetOrder(ctx context.Context, token *delivery.AccessToken, orderID string) (*delivery.MarketplaceOrder, error) {
	args := m.Called(ctx, token, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.MarketplaceOrder), args.Error(1)
}

func (m *MockMarketplace) ListRecentOrders(ctx context.Context, token *delivery.AccessToken) ([]delivery.MarketplaceOrder, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]delivery.MarketplaceOrder), args.Error(1)
}

func (m *MockMarketplace) AcknowledgeEvents(ctx context.Context, token *delivery.AccessToken, events []delivery.Event) error {
	args := m.Called(ctx, token, events)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of delivery.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, provider delivery.ProviderCode, externalID string) (*delivery.Order, error) {
	args := m.Called(ctx, tenantID, provider, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Order), args.Error(1)
}

func (m *MockOrderRepository) Insert(ctx context.Context, order *delivery.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, tenantID uuid.UUID, orderID uuid.UUID, status delivery.OrderStatus) error {
	args := m.Called(ctx, tenantID, orderID, status)
	return args.Error(0)
}

// MockIntegrationRepository is a mock implementation of delivery.MerchantIntegrationRepository
type MockIntegrationRepository struct {
	mock.Mock
}

func (m *MockIntegrationRepository) ListEnabledByProvider(ctx context.Context, provider delivery.ProviderCode) ([]delivery.MerchantIntegration, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]delivery.MerchantIntegration), args.Error(1)
}

// MockThrottle is a mock implementation of delivery.FallbackThrottle
type MockThrottle struct {
	mock.Mock
}

func (m *MockThrottle) Allow(ctx context.Context, key string, interval time.Duration) (bool, error) {
	args := m.Called(ctx, key, interval)
	return args.Bool(0), args.Error(1)
}
