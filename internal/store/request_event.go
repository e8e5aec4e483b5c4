package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const requestEventsTable = "request_events"

var requestEventColumns = []string{
	"id", "sequence", "timestamp", "method", "path",
	"status", "latency_ms", "attempts", "success", "error_message",
}

// requestEventRepo implements RequestEventRepo.
type requestEventRepo struct {
	db  *sql.DB
	seq *sequencer
}

func (r *requestEventRepo) Append(ctx context.Context, ev RequestEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	if ev.Attempts == 0 {
		ev.Attempts = 1
	}

	query, args := builder().Insert(requestEventsTable).
		Columns(requestEventColumns...).
		Values(
			ev.ID, seqNum, ev.Timestamp.UnixMilli(), ev.Method, ev.Path,
			ev.Status, ev.LatencyMs, ev.Attempts, ev.Success, ev.ErrorMessage,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save request event: %w", err)
	}
	return nil
}

func (r *requestEventRepo) Query(ctx context.Context, opts QueryOpts) ([]RequestEvent, error) {
	sel := builder().
		Select(requestEventColumns...).
		From(entsql.Table(requestEventsTable))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var events []RequestEvent
	for rows.Next() {
		var (
			ev RequestEvent
			ts int64
		)
		if err := rows.Scan(
			&ev.ID, &ev.Sequence, &ts, &ev.Method, &ev.Path,
			&ev.Status, &ev.LatencyMs, &ev.Attempts, &ev.Success, &ev.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan request event: %w", err)
		}
		ev.Timestamp = time.UnixMilli(ts)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *requestEventRepo) Prune(ctx context.Context, keep int) error {
	// Find the sequence of the newest event that falls outside the window.
	query, args := builder().
		Select("sequence").
		From(entsql.Table(requestEventsTable)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep events exist
	}
	if err != nil {
		return fmt.Errorf("query request events for prune: %w", err)
	}

	query, args = builder().Delete(requestEventsTable).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune request events: %w", err)
	}
	return nil
}
