package apiclient

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// RetryTransport is a decorator that retries transient errors with
// exponential backoff and jitter. Only idempotent methods are retried.
type RetryTransport struct {
	inner  Transport
	config RetryConfig
}

// WithRetry wraps a Transport with retry logic.
func WithRetry(t Transport, cfg RetryConfig) Transport {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryTransport{inner: t, config: cfg}
}

func (r *RetryTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	var (
		lastResp *Response
		lastErr  error
	)

	for attempt := range r.config.MaxAttempts {
		countAttempt(ctx)
		resp, err := r.inner.Do(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastResp, lastErr = resp, err

		if !retryable(req.Method, err) {
			return resp, err
		}

		// Last attempt, don't sleep.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastResp, lastErr
}

// retryable reports whether a failed request may be sent again.
func retryable(method string, err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
	default:
		// A POST that timed out may have been applied.
		return false
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrUnavailable
	return errors.As(err, &unavail)
}

// backoff computes the wait duration for the given attempt.
func (r *RetryTransport) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter for rate limits.
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
