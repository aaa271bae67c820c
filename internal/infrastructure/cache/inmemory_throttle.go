package cache

import (
	"context"
	"sync"
	"time"

	"github.com/orderbridge/backend/internal/domain/delivery"
)

// reservation records when a throttled slot frees up again
type reservation struct {
	expiresAt time.Time
}

// InMemoryThrottle implements FallbackThrottle using an in-memory map.
// This is suitable for single-instance deployments and testing.
type InMemoryThrottle struct {
	mu        sync.Mutex
	slots     map[string]reservation
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	// now is swappable for tests
	now func() time.Time
}

// NewInMemoryThrottle creates a new in-memory throttle.
// It starts a background goroutine to clean up expired reservations.
func NewInMemoryThrottle() *InMemoryThrottle {
	t := &InMemoryThrottle{
		slots:    make(map[string]reservation),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}

	t.wg.Add(1)
	go t.cleanupLoop()

	return t
}

// Allow reserves the slot for key if it is free
func (t *InMemoryThrottle) Allow(ctx context.Context, key string, interval time.Duration) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r, exists := t.slots[key]; exists && t.now().Before(r.expiresAt) {
		return false, nil
	}

	t.slots[key] = reservation{expiresAt: t.now().Add(interval)}
	return true, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (t *InMemoryThrottle) Close() error {
	t.closeOnce.Do(func() {
		close(t.stopChan)
		t.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired reservations
func (t *InMemoryThrottle) cleanupLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			t.cleanup()
		}
	}
}

// cleanup removes expired reservations
func (t *InMemoryThrottle) cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for key, r := range t.slots {
		if now.After(r.expiresAt) {
			delete(t.slots, key)
		}
	}
}

// Size returns the number of active reservations (for testing/monitoring)
func (t *InMemoryThrottle) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.slots)
}

// Ensure InMemoryThrottle implements FallbackThrottle
var _ delivery.FallbackThrottle = (*InMemoryThrottle)(nil)
