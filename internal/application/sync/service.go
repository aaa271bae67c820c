package sync

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/delivery"
	"github.com/orderbridge/backend/internal/infrastructure/telemetry"
)

// Failure stages recorded when a tenant cycle is interrupted
const (
	stageAuth = "auth"
	stagePoll = "poll"
	stageAck  = "ack"
)

// CycleReport summarizes one full sync pass over all enabled tenants.
type CycleReport struct {
	StartedAt       time.Time     `json:"startedAt"`
	Duration        time.Duration `json:"duration"`
	Tenants         int           `json:"tenants"`
	TenantsFailed   int           `json:"tenantsFailed"`
	EventsProcessed int           `json:"eventsProcessed"`
	OrdersCreated   int           `json:"ordersCreated"`
	OrdersUpdated   int           `json:"ordersUpdated"`
	EventsSkipped   int           `json:"eventsSkipped"`
	FallbacksUsed   int           `json:"fallbacksUsed"`
}

// tenantResult is the per-tenant slice of a cycle report
type tenantResult struct {
	events   int
	created  int
	updated  int
	skipped  int
	fallback bool
}

// SyncService coordinates sync cycles: it iterates enabled merchant
// integrations and runs one isolated cycle per tenant. One tenant's
// failure never affects another's cycle.
type SyncService struct {
	integrations delivery.MerchantIntegrationRepository
	marketplace  delivery.Marketplace
	reconciler   *OrderReconciler
	throttle     delivery.FallbackThrottle
	metrics      *telemetry.SyncMetrics
	logger       *zap.Logger

	// fallbackInterval is the minimum gap between fallback listings per tenant
	fallbackInterval time.Duration

	mu         sync.Mutex
	lastReport *CycleReport
}

// NewSyncService creates a new SyncService
func NewSyncService(
	integrations delivery.MerchantIntegrationRepository,
	marketplace delivery.Marketplace,
	reconciler *OrderReconciler,
	throttle delivery.FallbackThrottle,
	fallbackInterval time.Duration,
	metrics *telemetry.SyncMetrics,
	logger *zap.Logger,
) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		integrations:     integrations,
		marketplace:      marketplace,
		reconciler:       reconciler,
		throttle:         throttle,
		fallbackInterval: fallbackInterval,
		metrics:          metrics,
		logger:           logger.Named("sync"),
	}
}

// SyncAll runs one sync pass over every enabled integration. The recurring
// loop and the on-demand trigger both call this; per-tenant behavior is
// identical in either mode.
func (s *SyncService) SyncAll(ctx context.Context) (*CycleReport, error) {
	report := &CycleReport{StartedAt: time.Now()}

	integrations, err := s.integrations.ListEnabledByProvider(ctx, delivery.ProviderMarketplace)
	if err != nil {
		s.logger.Error("listing enabled integrations failed", zap.Error(err))
		return nil, err
	}
	report.Tenants = len(integrations)

	for _, integration := range integrations {
		if ctx.Err() != nil {
			break
		}

		started := time.Now()
		result, err := s.syncTenant(ctx, integration)
		if s.metrics != nil {
			s.metrics.RecordCycleDuration(ctx, integration.TenantID, time.Since(started))
		}
		if err != nil {
			// Tenant isolation: log, count, move on to the next tenant.
			report.TenantsFailed++
			s.logger.Error("tenant cycle failed",
				zap.String("tenant_id", integration.TenantID.String()),
				zap.Error(err))
			continue
		}

		report.EventsProcessed += result.events
		report.OrdersCreated += result.created
		report.OrdersUpdated += result.updated
		report.EventsSkipped += result.skipped
		if result.fallback {
			report.FallbacksUsed++
		}
	}

	report.Duration = time.Since(report.StartedAt)
	s.logger.Info("sync cycle finished",
		zap.Int("tenants", report.Tenants),
		zap.Int("tenants_failed", report.TenantsFailed),
		zap.Int("events_processed", report.EventsProcessed),
		zap.Int("orders_created", report.OrdersCreated),
		zap.Int("orders_updated", report.OrdersUpdated),
		zap.Int("events_skipped", report.EventsSkipped),
		zap.Int("fallbacks_used", report.FallbacksUsed),
		zap.Duration("duration", report.Duration))

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	return report, nil
}

// LastReport returns the most recent cycle report, or nil before the first
// completed cycle.
func (s *SyncService) LastReport() *CycleReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastReport == nil {
		return nil
	}
	report := *s.lastReport
	return &report
}

// syncTenant runs one tenant's cycle: authenticate, poll, reconcile,
// acknowledge. The token lives for exactly this cycle.
func (s *SyncService) syncTenant(ctx context.Context, integration delivery.MerchantIntegration) (tenantResult, error) {
	var result tenantResult
	tenantID := integration.TenantID

	token, err := s.marketplace.Authenticate(ctx, integration.Credentials)
	if err != nil {
		s.recordFailure(ctx, tenantID, stageAuth)
		return result, err
	}

	events, err := s.marketplace.PollEvents(ctx, token)
	if err != nil {
		s.recordFailure(ctx, tenantID, stagePoll)
		return result, err
	}
	if s.metrics != nil {
		s.metrics.RecordEventsPolled(ctx, tenantID, len(events))
	}

	// Only polled events carry acknowledgment IDs; synthesized ones do not.
	toAck := events

	if len(events) == 0 {
		synthesized, used := s.fallbackEvents(ctx, tenantID, token)
		events = synthesized
		result.fallback = used
	}

	for _, event := range events {
		switch s.reconciler.Reconcile(ctx, tenantID, token, event) {
		case ResultCreated:
			result.created++
		case ResultUpdated:
			result.updated++
		case ResultSkipped:
			result.skipped++
		}
		result.events++
	}

	if len(toAck) > 0 {
		if err := s.marketplace.AcknowledgeEvents(ctx, token, toAck); err != nil {
			// Best effort: redelivered events are absorbed by idempotent
			// reconciliation on the next cycle.
			s.recordFailure(ctx, tenantID, stageAck)
			s.logger.Warn("event acknowledgment failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Int("events", len(toAck)),
				zap.Error(err))
		}
	}

	return result, nil
}

// fallbackEvents lists recent orders directly when polling yielded nothing,
// rate-gated per tenant. Each listed order becomes a synthesized PLACED
// event with the payload embedded, so reconciliation creates missing orders
// without detail fetches and no-ops on known ones.
func (s *SyncService) fallbackEvents(ctx context.Context, tenantID uuid.UUID, token *delivery.AccessToken) ([]delivery.Event, bool) {
	if s.throttle == nil {
		return nil, false
	}

	allowed, err := s.throttle.Allow(ctx, tenantID.String(), s.fallbackInterval)
	if err != nil {
		s.logger.Warn("fallback throttle check failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, false
	}
	if !allowed {
		return nil, false
	}

	orders, err := s.marketplace.ListRecentOrders(ctx, token)
	if err != nil {
		// The fallback is supplementary; its failure never fails the cycle.
		s.logger.Warn("fallback listing failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, false
	}
	if s.metrics != nil {
		s.metrics.RecordFallbackListing(ctx, tenantID)
	}

	events := make([]delivery.Event, len(orders))
	for i := range orders {
		events[i] = delivery.Event{
			OrderID: orders[i].ID,
			Code:    delivery.EventCodePlaced,
			Order:   &orders[i],
		}
	}
	return events, true
}

func (s *SyncService) recordFailure(ctx context.Context, tenantID uuid.UUID, stage string) {
	if s.metrics != nil {
		s.metrics.RecordTenantFailure(ctx, tenantID, stage)
	}
}
