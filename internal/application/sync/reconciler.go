// Package sync implements the order synchronization engine: reconciling
// polled marketplace events against the local order store and coordinating
// per-tenant sync cycles.
package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/delivery"
	"github.com/orderbridge/backend/internal/infrastructure/telemetry"
)

// ReconcileResult classifies the outcome of applying one event.
type ReconcileResult string

const (
	// ResultCreated means a new local order was inserted
	ResultCreated ReconcileResult = "created"
	// ResultUpdated means an existing order's status was changed
	ResultUpdated ReconcileResult = "updated"
	// ResultNoop means the event required no write (idempotent redelivery,
	// rejected transition, or PLACED for an already known order)
	ResultNoop ReconcileResult = "noop"
	// ResultSkipped means the event could not be applied this cycle; it is
	// still acknowledged and the order converges on a later event or the
	// fallback listing
	ResultSkipped ReconcileResult = "skipped"
)

// OrderReconciler applies one marketplace event to the local order store.
// Reconciliation is idempotent: replaying an already applied event yields
// a no-op, never a duplicate order or a double transition.
type OrderReconciler struct {
	orders      delivery.OrderRepository
	marketplace delivery.Marketplace
	metrics     *telemetry.SyncMetrics
	logger      *zap.Logger
}

// NewOrderReconciler creates a new OrderReconciler
func NewOrderReconciler(
	orders delivery.OrderRepository,
	marketplace delivery.Marketplace,
	metrics *telemetry.SyncMetrics,
	logger *zap.Logger,
) *OrderReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderReconciler{
		orders:      orders,
		marketplace: marketplace,
		metrics:     metrics,
		logger:      logger.Named("reconciler"),
	}
}

// Reconcile applies a single event for a tenant. A failure never propagates:
// the event is classified as skipped, logged, and left for a later cycle to
// converge on. The caller acknowledges the event regardless of the result.
func (r *OrderReconciler) Reconcile(ctx context.Context, tenantID uuid.UUID, token *delivery.AccessToken, event delivery.Event) ReconcileResult {
	order, err := r.orders.FindByExternalID(ctx, tenantID, delivery.ProviderMarketplace, event.OrderID)
	switch {
	case err == nil:
		return r.applyTransition(ctx, tenantID, order, event)
	case errors.Is(err, delivery.ErrOrderNotFound):
		return r.createOrder(ctx, tenantID, token, event)
	default:
		r.logger.Error("order lookup failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("external_id", event.OrderID),
			zap.Error(err))
		return ResultSkipped
	}
}

// applyTransition moves an existing order along the status state machine
func (r *OrderReconciler) applyTransition(ctx context.Context, tenantID uuid.UUID, order *delivery.Order, event delivery.Event) ReconcileResult {
	target, ok := event.Code.TargetStatus(order.Status)
	if !ok {
		if order.Status.IsFinal() && event.Code != delivery.EventCodeCancelled {
			r.logger.Info("ignoring event for cancelled order",
				zap.String("tenant_id", tenantID.String()),
				zap.String("external_id", order.ExternalID),
				zap.String("code", event.Code.String()))
		}
		return ResultNoop
	}

	if err := r.orders.UpdateStatus(ctx, tenantID, order.ID, target); err != nil {
		r.logger.Error("status update failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("external_id", order.ExternalID),
			zap.String("target_status", target.String()),
			zap.Error(err))
		return ResultSkipped
	}

	r.logger.Info("order status updated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("external_id", order.ExternalID),
		zap.String("from", order.Status.String()),
		zap.String("to", target.String()))
	if r.metrics != nil {
		r.metrics.RecordOrderUpdated(ctx, tenantID)
	}
	return ResultUpdated
}

// createOrder stores a local order for a marketplace order seen for the
// first time. Events synthesized from the fallback listing embed the
// payload; polled events usually need a detail fetch.
func (r *OrderReconciler) createOrder(ctx context.Context, tenantID uuid.UUID, token *delivery.AccessToken, event delivery.Event) ReconcileResult {
	payload := event.Order
	if payload == nil {
		var err error
		payload, err = r.marketplace.GetOrder(ctx, token, event.OrderID)
		if err != nil {
			// The order stays unknown locally until a later event or the
			// fallback listing surfaces it again.
			r.logger.Warn("order detail unavailable, dropping creation",
				zap.String("tenant_id", tenantID.String()),
				zap.String("external_id", event.OrderID),
				zap.Error(err))
			if r.metrics != nil {
				r.metrics.RecordCreationDropped(ctx, tenantID, "detail_unavailable")
			}
			return ResultSkipped
		}
	}

	order := delivery.NewOrderFromMarketplace(tenantID, payload, event.Code)
	if err := r.orders.Insert(ctx, order); err != nil {
		r.logger.Error("order insert failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("external_id", event.OrderID),
			zap.Error(err))
		return ResultSkipped
	}

	r.logger.Info("order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("external_id", order.ExternalID),
		zap.String("status", order.Status.String()))
	if r.metrics != nil {
		r.metrics.RecordOrderCreated(ctx, tenantID)
	}
	return ResultCreated
}
