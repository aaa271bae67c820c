package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEventCode(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  EventCode
		known bool
	}{
		{name: "uppercase", raw: "PLACED", want: EventCodePlaced, known: true},
		{name: "lowercase", raw: "dispatched", want: EventCodeDispatched, known: true},
		{name: "mixed case", raw: "Concluded", want: EventCodeConcluded, known: true},
		{name: "surrounding whitespace", raw: "  cancelled ", want: EventCodeCancelled, known: true},
		{name: "ready for dispatch", raw: "ready_for_dispatch", want: EventCodeReadyForDispatch, known: true},
		{name: "unknown code", raw: "REFUNDED", known: false},
		{name: "empty", raw: "", known: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEventCode(tt.raw)
			assert.Equal(t, tt.known, ok)
			if tt.known {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEventCode_InitialStatus(t *testing.T) {
	tests := []struct {
		code EventCode
		want OrderStatus
	}{
		{EventCodePlaced, OrderStatusPending},
		{EventCodeConfirmed, OrderStatusPreparing},
		{EventCodeReadyForDispatch, OrderStatusPreparing},
		{EventCodeDispatched, OrderStatusDispatched},
		{EventCodeConcluded, OrderStatusCompleted},
		{EventCodeCancelled, OrderStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.InitialStatus())
		})
	}
}

func TestEventCode_TargetStatus(t *testing.T) {
	tests := []struct {
		name    string
		code    EventCode
		current OrderStatus
		want    OrderStatus
		ok      bool
	}{
		{name: "placed on existing order is a no-op", code: EventCodePlaced, current: OrderStatusPending, ok: false},
		{name: "confirmed moves pending to preparing", code: EventCodeConfirmed, current: OrderStatusPending, want: OrderStatusPreparing, ok: true},
		{name: "ready for dispatch moves pending to preparing", code: EventCodeReadyForDispatch, current: OrderStatusPending, want: OrderStatusPreparing, ok: true},
		{name: "dispatched moves preparing to dispatched", code: EventCodeDispatched, current: OrderStatusPreparing, want: OrderStatusDispatched, ok: true},
		{name: "concluded moves dispatched to completed", code: EventCodeConcluded, current: OrderStatusDispatched, want: OrderStatusCompleted, ok: true},
		{name: "same status is idempotent", code: EventCodeDispatched, current: OrderStatusDispatched, ok: false},
		{name: "repeated preparing code is idempotent", code: EventCodeConfirmed, current: OrderStatusPreparing, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.code.TargetStatus(tt.current)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEventCode_TargetStatus_CancelWins(t *testing.T) {
	// A cancel event moves any non-terminal status to CANCELLED.
	for _, current := range []OrderStatus{
		OrderStatusPending, OrderStatusPreparing, OrderStatusDispatched, OrderStatusCompleted,
	} {
		t.Run(string(current), func(t *testing.T) {
			got, ok := EventCodeCancelled.TargetStatus(current)
			assert.True(t, ok)
			assert.Equal(t, OrderStatusCancelled, got)
		})
	}
}

func TestEventCode_TargetStatus_CancelledIsAbsorbing(t *testing.T) {
	// Once cancelled, no event moves the order anywhere.
	for _, code := range []EventCode{
		EventCodePlaced, EventCodeConfirmed, EventCodeReadyForDispatch,
		EventCodeDispatched, EventCodeConcluded, EventCodeCancelled,
	} {
		t.Run(string(code), func(t *testing.T) {
			_, ok := code.TargetStatus(OrderStatusCancelled)
			assert.False(t, ok)
		})
	}
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderStatusPending.IsValid())
	assert.True(t, OrderStatusCancelled.IsValid())
	assert.False(t, OrderStatus("REFUNDED").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatus_IsFinal(t *testing.T) {
	assert.True(t, OrderStatusCancelled.IsFinal())
	assert.False(t, OrderStatusCompleted.IsFinal())
	assert.False(t, OrderStatusPending.IsFinal())
}
