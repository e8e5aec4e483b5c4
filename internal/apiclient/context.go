package apiclient

import "context"

type contextKey string

const attemptsKey contextKey = "apiclient_attempts"

// withAttemptCounter attaches a counter that WithRetry increments on every
// attempt, so the logging layer can record how many were made.
func withAttemptCounter(ctx context.Context) (context.Context, *int) {
	n := new(int)
	return context.WithValue(ctx, attemptsKey, n), n
}

// countAttempt increments the counter attached to ctx, if any.
func countAttempt(ctx context.Context) {
	if n, ok := ctx.Value(attemptsKey).(*int); ok {
		*n++
	}
}
