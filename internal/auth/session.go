package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/store"
	"github.com/abhisek/studyforge/internal/study"
)

// ErrNoSession is returned when an operation needs a signed-in user.
var ErrNoSession = errors.New("no active session")

// Session is the signed-in state: a bearer token and the user it belongs to.
type Session struct {
	Token string
	User  study.User
}

// Valid reports whether the session carries a token.
func (s Session) Valid() bool {
	return s.Token != ""
}

// EventKind identifies a session transition.
type EventKind int

const (
	// Login is published when a session is set.
	Login EventKind = iota + 1
	// Logout is published when the user signs out.
	Logout
	// Expired is published when the backend rejects the token or the
	// token's exp has passed.
	Expired
)

func (k EventKind) String() string {
	switch k {
	case Login:
		return "login"
	case Logout:
		return "logout"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers on every session transition.
type Event struct {
	Kind EventKind
	User study.User
}

// subscriberBuffer bounds per-subscriber backlog. A subscriber that falls
// this far behind misses events rather than blocking the publisher.
const subscriberBuffer = 8

// Holder owns the current session. It is safe for concurrent use and is
// the only mutable state shared between the API client and the screens.
type Holder struct {
	mu      sync.RWMutex
	session Session
	subs    map[int]chan Event
	nextSub int

	repo store.CredentialRepo
	log  *zap.Logger
	now  func() time.Time
}

// Option configures a Holder.
type Option func(*Holder)

// WithLogger sets the logger used for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(h *Holder) { h.log = l }
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(h *Holder) { h.now = now }
}

// NewHolder creates an empty Holder. When repo is non-nil the session is
// persisted there on every change.
func NewHolder(repo store.CredentialRepo, opts ...Option) *Holder {
	h := &Holder{
		subs: make(map[int]chan Event),
		repo: repo,
		log:  zap.NewNop(),
		now:  time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Restore loads a saved session. A saved token that has already expired is
// discarded. Restore publishes no events.
func (h *Holder) Restore(ctx context.Context) (Session, error) {
	if h.repo == nil {
		return Session{}, nil
	}

	c, err := h.repo.Load(ctx)
	if errors.Is(err, store.ErrNoCredentials) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("restore session: %w", err)
	}

	var user study.User
	if len(c.UserJSON) > 0 {
		if err := json.Unmarshal(c.UserJSON, &user); err != nil {
			h.log.Warn("discarding unreadable saved user", zap.Error(err))
			return Session{}, h.repo.Clear(ctx)
		}
	}

	if expiredAt(c.Token, h.now()) {
		h.log.Info("saved session expired", zap.String("user", user.Username))
		return Session{}, h.repo.Clear(ctx)
	}

	s := Session{Token: c.Token, User: user}
	h.mu.Lock()
	h.session = s
	h.mu.Unlock()
	return s, nil
}

// Get returns the current session.
func (h *Holder) Get() Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

// Token returns the current bearer token, or "".
func (h *Holder) Token() string {
	return h.Get().Token
}

// Expired reports whether the current token's exp has passed.
func (h *Holder) Expired() bool {
	tok := h.Token()
	return tok != "" && expiredAt(tok, h.now())
}

// Set replaces the session, persists it and publishes Login.
func (h *Holder) Set(ctx context.Context, s Session) error {
	h.mu.Lock()
	h.session = s
	h.mu.Unlock()

	var err error
	if h.repo != nil {
		err = h.save(ctx, s)
	}
	h.publish(Event{Kind: Login, User: s.User})
	return err
}

// UpdateUser replaces the signed-in user's profile and keeps the token. It
// publishes nothing and fails with ErrNoSession when no one is signed in.
func (h *Holder) UpdateUser(ctx context.Context, u study.User) error {
	h.mu.Lock()
	if h.session.Token == "" {
		h.mu.Unlock()
		return ErrNoSession
	}
	h.session.User = u
	s := h.session
	h.mu.Unlock()

	if h.repo == nil {
		return nil
	}
	return h.save(ctx, s)
}

// Clear signs out and publishes Logout.
func (h *Holder) Clear(ctx context.Context) error {
	return h.end(ctx, Logout)
}

// Expire drops the session because the backend no longer accepts it and
// publishes Expired. Calling it without a session is a no-op, so concurrent
// requests that all see a 401 produce a single event.
func (h *Holder) Expire(ctx context.Context) error {
	return h.end(ctx, Expired)
}

func (h *Holder) end(ctx context.Context, kind EventKind) error {
	h.mu.Lock()
	prev := h.session
	h.session = Session{}
	h.mu.Unlock()

	var err error
	if h.repo != nil {
		if err = h.repo.Clear(ctx); err != nil {
			err = fmt.Errorf("clear session: %w", err)
		}
	}

	if kind == Expired && !prev.Valid() {
		return err
	}
	h.publish(Event{Kind: kind, User: prev.User})
	return err
}

func (h *Holder) save(ctx context.Context, s Session) error {
	user, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := h.repo.Save(ctx, store.Credentials{Token: s.Token, UserJSON: user, SavedAt: h.now()}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Subscribe returns a channel of session events and a function that
// unsubscribes and closes it.
func (h *Holder) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Holder) publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.log.Warn("dropping session event for slow subscriber", zap.Stringer("kind", ev.Kind))
		}
	}
}
