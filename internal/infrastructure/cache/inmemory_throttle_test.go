package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryThrottle_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("first call reserves the slot", func(t *testing.T) {
		throttle := NewInMemoryThrottle()
		defer throttle.Close()

		ok, err := throttle.Allow(ctx, "tenant-a", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("second call within interval is rejected", func(t *testing.T) {
		throttle := NewInMemoryThrottle()
		defer throttle.Close()

		ok, err := throttle.Allow(ctx, "tenant-a", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = throttle.Allow(ctx, "tenant-a", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("different keys do not interfere", func(t *testing.T) {
		throttle := NewInMemoryThrottle()
		defer throttle.Close()

		ok, err := throttle.Allow(ctx, "tenant-a", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = throttle.Allow(ctx, "tenant-b", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("slot frees after the interval", func(t *testing.T) {
		throttle := NewInMemoryThrottle()
		defer throttle.Close()

		current := time.Now()
		throttle.now = func() time.Time { return current }

		ok, err := throttle.Allow(ctx, "tenant-a", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		current = current.Add(61 * time.Second)

		ok, err = throttle.Allow(ctx, "tenant-a", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryThrottle_Cleanup(t *testing.T) {
	throttle := NewInMemoryThrottle()
	defer throttle.Close()

	current := time.Now()
	throttle.now = func() time.Time { return current }

	ctx := context.Background()
	_, err := throttle.Allow(ctx, "tenant-a", time.Minute)
	require.NoError(t, err)
	_, err = throttle.Allow(ctx, "tenant-b", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 2, throttle.Size())

	current = current.Add(2 * time.Minute)
	throttle.cleanup()

	assert.Equal(t, 1, throttle.Size())
}

func TestInMemoryThrottle_CloseIsIdempotent(t *testing.T) {
	throttle := NewInMemoryThrottle()
	assert.NoError(t, throttle.Close())
	assert.NoError(t, throttle.Close())
}
