package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	// Marketplace transport errors
	ErrMarketplaceUnavailable     = errors.New("delivery: marketplace temporarily unavailable")
	ErrMarketplaceRequestFailed   = errors.New("delivery: marketplace request failed")
	ErrMarketplaceInvalidResponse = errors.New("delivery: invalid marketplace response")

	// Sync cycle errors
	ErrAuthFailed             = errors.New("delivery: marketplace authentication failed")
	ErrPollFailed             = errors.New("delivery: event polling failed")
	ErrOrderDetailUnavailable = errors.New("delivery: order detail unavailable")
	ErrAcknowledgeFailed      = errors.New("delivery: event acknowledgment failed")

	// Persistence errors
	ErrOrderNotFound       = errors.New("delivery: order not found")
	ErrIntegrationNotFound = errors.New("delivery: merchant integration not found")
)

// ---------------------------------------------------------------------------
// ProviderCode
// ---------------------------------------------------------------------------

// ProviderCode identifies the external system a merchant integration talks to.
type ProviderCode string

const (
	// ProviderMarketplace is the delivery marketplace provider
	ProviderMarketplace ProviderCode = "MARKETPLACE"
)

// IsValid returns true if the provider code is valid
func (c ProviderCode) IsValid() bool {
	return c == ProviderMarketplace
}

// String returns the string representation of ProviderCode
func (c ProviderCode) String() string {
	return string(c)
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// Credentials is a per-tenant client-credentials pair for the marketplace
// auth endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// AccessToken is a short-lived bearer token obtained for one tenant.
// It is scoped to a single sync cycle: never persisted, never reused
// across cycles.
type AccessToken struct {
	// Value is the opaque bearer token
	Value string
	// ObtainedAt is when the token was issued to us
	ObtainedAt time.Time
}

// Event is one polled marketplace notification: a reference to a
// marketplace order plus a status-change code. Events are transient; each
// one is consumed by exactly one reconciliation pass and then acknowledged.
type Event struct {
	// ID is the marketplace event identifier, used for acknowledgment
	ID string
	// OrderID is the marketplace order the event refers to
	OrderID string
	// Code is the status-change code
	Code EventCode
	// Order optionally carries the full order payload. Events synthesized
	// from the fallback listing embed it so reconciliation can create the
	// order without a detail fetch.
	Order *MarketplaceOrder
}

// MarketplaceOrder is the marketplace's representation of an order, as
// returned by the order-detail endpoint or the fallback listing.
type MarketplaceOrder struct {
	// ID is the marketplace order identifier
	ID string
	// CustomerName is the buyer's display name
	CustomerName string
	// TotalAmount is what the buyer pays
	TotalAmount decimal.Decimal
	// PaymentMethod is the marketplace payment method label
	PaymentMethod string
	// CreatedAt is when the order was placed on the marketplace
	CreatedAt time.Time
	// RawData is the original marketplace payload (JSON), stored verbatim
	// on the local order as a source snapshot
	RawData string
}

// ---------------------------------------------------------------------------
// Marketplace Port Interface
// ---------------------------------------------------------------------------

// Marketplace is the port interface for the delivery marketplace API.
// Implementations live in the infrastructure layer. All calls are blocking
// network I/O; callers hold at most one call in flight per tenant.
type Marketplace interface {
	// Authenticate performs a client-credentials exchange and returns a
	// bearer token valid for roughly one sync cycle. Any non-2xx response,
	// malformed body or transport error yields ErrAuthFailed.
	Authenticate(ctx context.Context, creds Credentials) (*AccessToken, error)

	// PollEvents retrieves pending event notifications. A 204 response is
	// an empty slice, not an error. Events without an order identifier are
	// dropped before being returned. Transport or non-success failures
	// yield ErrPollFailed.
	PollEvents(ctx context.Context, token *AccessToken) ([]Event, error)

	// GetOrder fetches the full order detail for one marketplace order.
	GetOrder(ctx context.Context, token *AccessToken, orderID string) (*MarketplaceOrder, error)

	// ListRecentOrders retrieves recent raw orders directly. Used as a
	// best-effort supplementary source when polling yields nothing.
	ListRecentOrders(ctx context.Context, token *AccessToken) ([]MarketplaceOrder, error)

	// AcknowledgeEvents confirms consumed events in one batch so they are
	// not redelivered on the next poll. Failures yield ErrAcknowledgeFailed;
	// redelivered events must be tolerated by idempotent reconciliation.
	AcknowledgeEvents(ctx context.Context, token *AccessToken, events []Event) error
}
