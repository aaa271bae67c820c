package delivery

import (
	"context"
	"time"
)

// FallbackThrottle rate-gates the fallback order listing. The listing
// endpoint is expensive on the marketplace side, so a tenant may only hit
// it once per configured interval even though polling runs far more often.
type FallbackThrottle interface {
	// Allow reports whether the action identified by key may run now. A true
	// result reserves the slot for the given interval; callers must not retry
	// within it.
	Allow(ctx context.Context, key string, interval time.Duration) (bool, error)
}
