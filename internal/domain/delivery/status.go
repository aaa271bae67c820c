package delivery

import "strings"

// ---------------------------------------------------------------------------
// OrderStatus
// ---------------------------------------------------------------------------

// OrderStatus represents the lifecycle status of a locally stored order.
type OrderStatus string

const (
	// OrderStatusPending indicates the order was placed and awaits confirmation
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusPreparing indicates the merchant confirmed the order and is preparing it
	OrderStatusPreparing OrderStatus = "PREPARING"
	// OrderStatusDispatched indicates the order left the merchant for delivery
	OrderStatusDispatched OrderStatus = "DISPATCHED"
	// OrderStatusCompleted indicates the order was delivered and concluded
	OrderStatusCompleted OrderStatus = "COMPLETED"
	// OrderStatusCancelled indicates the order was cancelled; absorbing state
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusDispatched,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsFinal returns true if the status is a terminal state.
// CANCELLED is absorbing: once an order is cancelled no event may move it
// to another status. COMPLETED can still be overridden by a cancel event
// (refund after delivery); CANCELLED cannot.
func (s OrderStatus) IsFinal() bool {
	return s == OrderStatusCancelled
}

// ---------------------------------------------------------------------------
// EventCode
// ---------------------------------------------------------------------------

// EventCode represents a status-change notification code emitted by the
// marketplace event feed. The vocabulary is closed; codes outside it are
// rejected at parse time so an unhandled code is visible as a parse gap,
// not a silent string branch.
type EventCode string

const (
	// EventCodePlaced indicates a new order was placed on the marketplace
	EventCodePlaced EventCode = "PLACED"
	// EventCodeConfirmed indicates the merchant confirmed the order
	EventCodeConfirmed EventCode = "CONFIRMED"
	// EventCodeReadyForDispatch indicates the order is ready to leave the merchant
	EventCodeReadyForDispatch EventCode = "READY_FOR_DISPATCH"
	// EventCodeDispatched indicates the order was handed to a courier
	EventCodeDispatched EventCode = "DISPATCHED"
	// EventCodeConcluded indicates the order was delivered and closed
	EventCodeConcluded EventCode = "CONCLUDED"
	// EventCodeCancelled indicates the order was cancelled on the marketplace
	EventCodeCancelled EventCode = "CANCELLED"
)

// IsValid returns true if the event code is part of the known vocabulary
func (c EventCode) IsValid() bool {
	switch c {
	case EventCodePlaced, EventCodeConfirmed, EventCodeReadyForDispatch,
		EventCodeDispatched, EventCodeConcluded, EventCodeCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of EventCode
func (c EventCode) String() string {
	return string(c)
}

// ParseEventCode parses a raw marketplace code case-insensitively into the
// closed vocabulary. The second return value is false for unknown codes.
func ParseEventCode(raw string) (EventCode, bool) {
	code := EventCode(strings.ToUpper(strings.TrimSpace(raw)))
	if code.IsValid() {
		return code, true
	}
	return "", false
}

// ---------------------------------------------------------------------------
// State machine
// ---------------------------------------------------------------------------

// InitialStatus returns the status a newly created order takes when its
// first observed event carries this code. The order is created directly
// into the status the code implies, so a late-discovered order does not
// churn through intermediate states it was never observed in.
func (c EventCode) InitialStatus() OrderStatus {
	switch c {
	case EventCodeCancelled:
		return OrderStatusCancelled
	case EventCodeConfirmed, EventCodeReadyForDispatch:
		return OrderStatusPreparing
	case EventCodeDispatched:
		return OrderStatusDispatched
	case EventCodeConcluded:
		return OrderStatusCompleted
	default:
		return OrderStatusPending
	}
}

// TargetStatus returns the status an existing order should move to when
// this code is received, or ok=false when the event requires no status
// write:
//   - PLACED on an existing order is a no-op (the order already exists),
//   - any non-cancel code on a CANCELLED order is rejected by the
//     absorbing-state guard,
//   - a code whose target equals the current status is an idempotent no-op.
func (c EventCode) TargetStatus(current OrderStatus) (OrderStatus, bool) {
	// Absorbing-state guard: explicit, not an artifact of check ordering.
	if current.IsFinal() {
		if c == EventCodeCancelled {
			return current, false // re-cancel is idempotent
		}
		return "", false
	}

	var target OrderStatus
	switch c {
	case EventCodePlaced:
		return "", false
	case EventCodeCancelled:
		target = OrderStatusCancelled
	case EventCodeConfirmed, EventCodeReadyForDispatch:
		target = OrderStatusPreparing
	case EventCodeDispatched:
		target = OrderStatusDispatched
	case EventCodeConcluded:
		target = OrderStatusCompleted
	default:
		return "", false
	}

	if target == current {
		return current, false
	}
	return target, true
}
