package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

const sequenceTable = "request_sequence"

// sequencer stamps request events with a monotonic number, so events that
// land within the same millisecond still order and page correctly.
type sequencer struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequencer seeds the single counter row. The table itself is created
// by migrate.
func newSequencer(db *sql.DB) (*sequencer, error) {
	query, args := builder().Insert(sequenceTable).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequencer{db: db}, nil
}

// Next returns the current value and advances the counter in one statement.
func (s *sequencer) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	row := s.db.QueryRowContext(ctx,
		`UPDATE `+sequenceTable+` SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
