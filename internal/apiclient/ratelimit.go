package apiclient

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitTransport spaces requests with a token bucket. Waiting honours
// ctx.
type RateLimitTransport struct {
	inner   Transport
	limiter *rate.Limiter
}

// WithRateLimit wraps t with a token bucket of perSecond requests and the
// given burst. A non-positive perSecond returns t unchanged.
func WithRateLimit(t Transport, perSecond float64, burst int) Transport {
	if perSecond <= 0 {
		return t
	}
	return &RateLimitTransport{inner: t, limiter: rate.NewLimiter(rate.Limit(perSecond), max(1, burst))}
}

func (r *RateLimitTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.inner.Do(ctx, req)
}
