package store

import (
	"context"
	"errors"
	"time"
)

// ErrNoCredentials is returned by CredentialRepo.Load when nothing is saved.
var ErrNoCredentials = errors.New("no saved credentials")

// Credentials is the persisted session: the bearer token and the user
// profile as returned at sign-in, kept as raw JSON.
type Credentials struct {
	Token    string
	UserJSON []byte
	SavedAt  time.Time
}

// CredentialRepo persists a single session.
type CredentialRepo interface {
	// Save replaces any saved session.
	Save(ctx context.Context, c Credentials) error

	// Load returns the saved session, or ErrNoCredentials.
	Load(ctx context.Context) (Credentials, error)

	// Clear removes the saved session. Clearing nothing is not an error.
	Clear(ctx context.Context) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// RequestEvent is one backend call as seen by the client.
type RequestEvent struct {
	ID           string
	Sequence     int64
	Timestamp    time.Time
	Method       string
	Path         string
	Status       int
	LatencyMs    int64
	Attempts     int
	Success      bool
	ErrorMessage string
}

// RequestEventRepo provides append and query access to request events.
type RequestEventRepo interface {
	// Append records an event. An empty ID is filled with a new UUID and
	// the sequence is always assigned by the store.
	Append(ctx context.Context, ev RequestEvent) error

	// Query returns events newest first.
	Query(ctx context.Context, opts QueryOpts) ([]RequestEvent, error)

	// Prune deletes all but the N most recent events.
	Prune(ctx context.Context, keep int) error
}
