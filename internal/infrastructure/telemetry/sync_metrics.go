package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// SyncMetrics tracks the order synchronization engine: events consumed,
// orders written, and the failure stages that interrupted tenant cycles.
type SyncMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	eventsPolledTotal    *Counter
	ordersCreatedTotal   *Counter
	ordersUpdatedTotal   *Counter
	creationsDropped     *Counter
	tenantFailuresTotal  *Counter
	fallbackListingsUsed *Counter
	cycleDuration        *Histogram
}

// NewSyncMetrics creates a new SyncMetrics instance.
func NewSyncMetrics(meter metric.Meter, logger *zap.Logger) (*SyncMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &SyncMetrics{meter: meter, logger: logger}

	var err error
	if sm.eventsPolledTotal, err = NewCounter(meter,
		"orderbridge_events_polled_total",
		"Total number of marketplace events received from polling",
		"{events}"); err != nil {
		return nil, err
	}
	if sm.ordersCreatedTotal, err = NewCounter(meter,
		"orderbridge_orders_created_total",
		"Total number of local orders created from marketplace events",
		"{orders}"); err != nil {
		return nil, err
	}
	if sm.ordersUpdatedTotal, err = NewCounter(meter,
		"orderbridge_orders_updated_total",
		"Total number of local order status updates",
		"{orders}"); err != nil {
		return nil, err
	}
	if sm.creationsDropped, err = NewCounter(meter,
		"orderbridge_order_creations_dropped_total",
		"Order creations skipped because the order payload could not be fetched",
		"{orders}"); err != nil {
		return nil, err
	}
	if sm.tenantFailuresTotal, err = NewCounter(meter,
		"orderbridge_tenant_cycle_failures_total",
		"Tenant sync cycles interrupted by a failure, labeled by stage",
		"{cycles}"); err != nil {
		return nil, err
	}
	if sm.fallbackListingsUsed, err = NewCounter(meter,
		"orderbridge_fallback_listings_total",
		"Fallback order listings performed when polling returned nothing",
		"{requests}"); err != nil {
		return nil, err
	}
	if sm.cycleDuration, err = NewHistogram(meter,
		"orderbridge_tenant_cycle_duration_seconds",
		"Duration of one tenant sync cycle",
		"s", CycleDurationBuckets...); err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordEventsPolled records events received for a tenant
func (sm *SyncMetrics) RecordEventsPolled(ctx context.Context, tenantID uuid.UUID, count int) {
	if count <= 0 {
		return
	}
	sm.eventsPolledTotal.Add(ctx, int64(count), AttrTenantID.String(tenantID.String()))
}

// RecordOrderCreated records one local order creation
func (sm *SyncMetrics) RecordOrderCreated(ctx context.Context, tenantID uuid.UUID) {
	sm.ordersCreatedTotal.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordOrderUpdated records one local order status update
func (sm *SyncMetrics) RecordOrderUpdated(ctx context.Context, tenantID uuid.UUID) {
	sm.ordersUpdatedTotal.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordCreationDropped records an order creation that was skipped because
// no payload was available
func (sm *SyncMetrics) RecordCreationDropped(ctx context.Context, tenantID uuid.UUID, reason string) {
	sm.creationsDropped.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrReason.String(reason))
}

// RecordTenantFailure records a tenant cycle interrupted at the given stage
func (sm *SyncMetrics) RecordTenantFailure(ctx context.Context, tenantID uuid.UUID, stage string) {
	sm.tenantFailuresTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrStage.String(stage))
}

// RecordFallbackListing records one fallback listing request
func (sm *SyncMetrics) RecordFallbackListing(ctx context.Context, tenantID uuid.UUID) {
	sm.fallbackListingsUsed.Inc(ctx, AttrTenantID.String(tenantID.String()))
}

// RecordCycleDuration records the wall time of one tenant cycle
func (sm *SyncMetrics) RecordCycleDuration(ctx context.Context, tenantID uuid.UUID, d time.Duration) {
	sm.cycleDuration.RecordDuration(ctx, d, AttrTenantID.String(tenantID.String()))
}
