package delivery

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter bounds the rate of outbound deliveries to a subject, so an
// evaluation run never itself becomes a denial-of-service load against
// the thing it's testing.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter constructs a limiter allowing ratePerSecond sustained
// requests with a burst of burst. ratePerSecond <= 0 disables limiting.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	if ratePerSecond <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
}

// Wait blocks until a delivery slot is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
