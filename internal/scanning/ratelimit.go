package scanning

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const rateLimitProvider = "rate-limit"

// RateLimited throttles calls to a wrapped Scanner. Callers block until a
// token is available or their context is done.
type RateLimited struct {
	next    Scanner
	limiter *rate.Limiter
}

// NewRateLimited allows perMinute calls per minute with the given burst.
// A non-positive perMinute disables throttling.
func NewRateLimited(next Scanner, perMinute int, burst int) *RateLimited {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (r *RateLimited) RecognizeText(ctx context.Context, imageData []byte, contentType string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", unavailable(rateLimitProvider, fmt.Errorf("waiting for ocr rate limit: %w", err))
	}
	return r.next.RecognizeText(ctx, imageData, contentType)
}

func (r *RateLimited) Close() error {
	return r.next.Close()
}
