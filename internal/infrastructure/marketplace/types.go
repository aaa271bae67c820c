package marketplace

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// tokenResponse is the auth endpoint response body
type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// eventPayload is one element of the polling response. The order field is
// kept raw so the original payload can be stored verbatim.
type eventPayload struct {
	ID      string          `json:"id"`
	OrderID string          `json:"orderId"`
	Code    string          `json:"code"`
	Order   json.RawMessage `json:"order"`
}

// orderPayload is the marketplace order shape, returned by the detail
// endpoint, the fallback listing, and optionally embedded in events.
type orderPayload struct {
	ID       string `json:"id"`
	Customer struct {
		Name string `json:"name"`
	} `json:"customer"`
	Total struct {
		OrderAmount decimal.Decimal `json:"orderAmount"`
	} `json:"total"`
	Payment struct {
		Method string `json:"method"`
	} `json:"payment"`
	CreatedAt time.Time `json:"createdAt"`
}

// ackPayload is one element of the acknowledgment request body
type ackPayload struct {
	ID string `json:"id"`
}
