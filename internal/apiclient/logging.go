package apiclient

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/store"
)

// LoggingTransport is a decorator that records every request as an event
// in the local store and in the log.
type LoggingTransport struct {
	inner     Transport
	eventRepo store.RequestEventRepo
	log       *zap.Logger
}

// WithLogging wraps a Transport with event logging. repo may be nil.
func WithLogging(t Transport, repo store.RequestEventRepo, log *zap.Logger) Transport {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingTransport{inner: t, eventRepo: repo, log: log}
}

func (l *LoggingTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()
	ctx, attempts := withAttemptCounter(ctx)

	resp, err := l.inner.Do(ctx, req)

	ev := store.RequestEvent{
		ID:        req.Header.Get(requestIDHeader),
		Timestamp: start,
		Method:    req.Method,
		Path:      req.Path,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  max(*attempts, 1),
		Success:   err == nil && resp != nil && resp.Status < 400,
	}
	if resp != nil {
		ev.Status = resp.Status
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	fields := []zap.Field{
		zap.String("request_id", ev.ID),
		zap.String("method", ev.Method),
		zap.String("path", ev.Path),
		zap.Int("status", ev.Status),
		zap.Int64("latency_ms", ev.LatencyMs),
		zap.Int("attempts", ev.Attempts),
	}
	if err != nil {
		l.log.Warn("api request failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Debug("api request", fields...)
	}

	// Record the event but don't fail the request if recording fails.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.Append(context.WithoutCancel(ctx), ev); logErr != nil {
			l.log.Warn("failed to record request event", zap.Error(logErr))
		}
	}

	return resp, err
}
