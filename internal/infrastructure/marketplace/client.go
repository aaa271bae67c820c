package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/delivery"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 10 * 1024 * 1024 // 10MB max response

// Client implements the delivery.Marketplace port against the marketplace
// HTTP API. It is stateless; tokens are passed in by the caller per call.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new marketplace API client
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.timeout(),
		},
		logger: logger.Named("marketplace"),
	}, nil
}

var _ delivery.Marketplace = (*Client)(nil)

// Authenticate performs a client-credentials exchange.
// Every failure mode collapses to ErrAuthFailed; the caller treats auth as
// all-or-nothing for the tenant's cycle.
func (c *Client) Authenticate(ctx context.Context, creds delivery.Credentials) (*delivery.AccessToken, error) {
	form := url.Values{}
	form.Set("grantType", "client_credentials")
	form.Set("clientId", creds.ClientID)
	form.Set("clientSecret", creds.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrAuthFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrAuthFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", delivery.ErrAuthFailed, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrAuthFailed, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", delivery.ErrAuthFailed)
	}

	return &delivery.AccessToken{
		Value:      token.AccessToken,
		ObtainedAt: time.Now(),
	}, nil
}

// PollEvents retrieves pending event notifications.
// A 204 means no pending events and returns an empty slice. Events with no
// order reference or an unknown code are dropped here so reconciliation
// only ever sees well-formed events. Dropped events are not acknowledged;
// the marketplace redelivers them, which is harmless.
func (c *Client) PollEvents(ctx context.Context, token *delivery.AccessToken) ([]delivery.Event, error) {
	body, status, err := c.get(ctx, token, c.config.BaseURL+"/events:polling")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrPollFailed, err)
	}
	if status == http.StatusNoContent {
		return []delivery.Event{}, nil
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", delivery.ErrPollFailed, status)
	}

	var payloads []eventPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrPollFailed, err)
	}

	events := make([]delivery.Event, 0, len(payloads))
	for _, p := range payloads {
		if p.OrderID == "" {
			c.logger.Warn("dropping event without order reference", zap.String("event_id", p.ID))
			continue
		}
		code, ok := delivery.ParseEventCode(p.Code)
		if !ok {
			c.logger.Warn("dropping event with unknown code",
				zap.String("event_id", p.ID),
				zap.String("code", p.Code))
			continue
		}

		event := delivery.Event{
			ID:      p.ID,
			OrderID: p.OrderID,
			Code:    code,
		}
		if len(p.Order) > 0 && !bytes.Equal(p.Order, []byte("null")) {
			if order, err := parseOrder(p.Order); err == nil {
				event.Order = order
			} else {
				c.logger.Warn("ignoring malformed embedded order payload",
					zap.String("event_id", p.ID), zap.Error(err))
			}
		}
		events = append(events, event)
	}

	return events, nil
}

// GetOrder fetches the full order detail for one marketplace order
func (c *Client) GetOrder(ctx context.Context, token *delivery.AccessToken, orderID string) (*delivery.MarketplaceOrder, error) {
	body, status, err := c.get(ctx, token, c.config.BaseURL+"/orders/"+url.PathEscape(orderID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrOrderDetailUnavailable, err)
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: order %s", delivery.ErrOrderNotFound, orderID)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", delivery.ErrOrderDetailUnavailable, status)
	}

	order, err := parseOrder(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrOrderDetailUnavailable, err)
	}
	return order, nil
}

// ListRecentOrders retrieves recent raw orders directly (fallback listing)
func (c *Client) ListRecentOrders(ctx context.Context, token *delivery.AccessToken) ([]delivery.MarketplaceOrder, error) {
	body, status, err := c.get(ctx, token, c.config.BaseURL+"/orders?recent=true")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrMarketplaceRequestFailed, err)
	}
	if status == http.StatusNoContent {
		return []delivery.MarketplaceOrder{}, nil
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", delivery.ErrMarketplaceRequestFailed, status)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", delivery.ErrMarketplaceInvalidResponse, err)
	}

	orders := make([]delivery.MarketplaceOrder, 0, len(raws))
	for _, raw := range raws {
		order, err := parseOrder(raw)
		if err != nil {
			c.logger.Warn("skipping malformed order in listing", zap.Error(err))
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// AcknowledgeEvents confirms consumed events in one batch
func (c *Client) AcknowledgeEvents(ctx context.Context, token *delivery.AccessToken, events []delivery.Event) error {
	if len(events) == 0 {
		return nil
	}

	acks := make([]ackPayload, len(events))
	for i, e := range events {
		acks[i] = ackPayload{ID: e.ID}
	}
	bodyBytes, err := json.Marshal(acks)
	if err != nil {
		return fmt.Errorf("%w: %v", delivery.ErrAcknowledgeFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/events/acknowledgment", bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", delivery.ErrAcknowledgeFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.Value)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", delivery.ErrAcknowledgeFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize)) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", delivery.ErrAcknowledgeFailed, resp.StatusCode)
	}
	return nil
}

// get performs an authenticated GET and returns the body and status code
func (c *Client) get(ctx context.Context, token *delivery.AccessToken, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.Value)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", delivery.ErrMarketplaceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

// parseOrder converts a raw marketplace order payload into the domain shape,
// keeping the original JSON verbatim as the source snapshot.
func parseOrder(raw []byte) (*delivery.MarketplaceOrder, error) {
	var p orderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, fmt.Errorf("order payload missing id")
	}

	return &delivery.MarketplaceOrder{
		ID:            p.ID,
		CustomerName:  p.Customer.Name,
		TotalAmount:   p.Total.OrderAmount,
		PaymentMethod: p.Payment.Method,
		CreatedAt:     p.CreatedAt,
		RawData:       string(raw),
	}, nil
}
