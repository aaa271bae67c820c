package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/orderbridge/backend/internal/infrastructure/telemetry"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	cfg := telemetry.MetricsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    60 * time.Second,
		ServiceName:       "test-service",
	}

	mp, err := telemetry.NewMeterProvider(ctx, cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, mp)

	assert.False(t, mp.IsEnabled())

	// Meter still hands out a usable (no-op) meter
	meter := mp.Meter("test")
	assert.NotNil(t, meter)

	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewSyncMetrics(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{Enabled: false}, logger)
	require.NoError(t, err)

	t.Run("requires a meter", func(t *testing.T) {
		_, err := telemetry.NewSyncMetrics(nil, logger)
		assert.ErrorIs(t, err, telemetry.ErrMeterNil)
	})

	t.Run("records without panicking on no-op meter", func(t *testing.T) {
		sm, err := telemetry.NewSyncMetrics(mp.Meter("sync-test"), logger)
		require.NoError(t, err)

		tenantID := uuid.New()
		sm.RecordEventsPolled(ctx, tenantID, 3)
		sm.RecordEventsPolled(ctx, tenantID, 0) // ignored
		sm.RecordOrderCreated(ctx, tenantID)
		sm.RecordOrderUpdated(ctx, tenantID)
		sm.RecordCreationDropped(ctx, tenantID, "detail_unavailable")
		sm.RecordTenantFailure(ctx, tenantID, "auth")
		sm.RecordFallbackListing(ctx, tenantID)
		sm.RecordCycleDuration(ctx, tenantID, 250*time.Millisecond)
	})
}
