package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum spacing between outbound calls to one
// provider instance. Burst is pinned to 1 so calls are strictly
// serialized to no faster than one per interval, which also caps the
// provider's overall throughput.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter with the given minimum interval between calls.
// A non-positive interval disables throttling.
func New(minInterval time.Duration) *Limiter {
	if minInterval <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the interval since the previous permitted call has
// elapsed, or until ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
