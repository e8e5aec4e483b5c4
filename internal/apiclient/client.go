package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/auth"
	"github.com/abhisek/studyforge/internal/store"
)

const requestIDHeader = "X-Request-ID"

// Client is the backend API wrapper. Every call carries the session's
// bearer token; a rejected or expired token ends the session.
type Client struct {
	transport Transport
	session   *auth.Holder
	log       *zap.Logger
	cfg       Config
}

// Option configures a Client.
type Option func(*options)

type options struct {
	base      Transport
	eventRepo store.RequestEventRepo
	log       *zap.Logger
}

// WithTransport replaces the HTTP transport at the bottom of the chain.
func WithTransport(t Transport) Option {
	return func(o *options) { o.base = t }
}

// WithEventRepo records every request in repo.
func WithEventRepo(repo store.RequestEventRepo) Option {
	return func(o *options) { o.eventRepo = repo }
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New builds a Client. The transport chain is logging(retry(ratelimit(http))).
func New(cfg Config, session *auth.Holder, opts ...Option) (*Client, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.base == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		base, err := NewHTTPTransport(cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		o.base = base
	}
	if session == nil {
		session = auth.NewHolder(nil)
	}

	t := WithRetry(WithRateLimit(o.base, cfg.RateLimit, cfg.RateBurst), cfg.Retry)
	t = WithLogging(t, o.eventRepo, o.log)

	return &Client{transport: t, session: session, log: o.log, cfg: cfg}, nil
}

// Session returns the holder the client authenticates with.
func (c *Client) Session() *auth.Holder {
	return c.session
}

// Do sends a JSON request and decodes a JSON reply into out. body and out
// may be nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, call{method: method, path: path, body: body, out: out})
}

// call describes one request. Exactly one of body or raw is used.
type call struct {
	method      string
	path        string
	query       url.Values
	body        any
	raw         []byte
	contentType string
	schema      *Schema
	out         any
}

func (c *Client) send(ctx context.Context, cl call) error {
	token := c.session.Token()
	if token != "" && c.session.Expired() {
		c.expire(ctx, cl.path)
		return ErrAuthExpired
	}

	req := &Request{
		Method:      cl.method,
		Path:        cl.path,
		Query:       cl.query,
		Header:      http.Header{},
		Body:        cl.raw,
		ContentType: cl.contentType,
	}
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", cl.path, err)
		}
		req.Body = data
		req.ContentType = "application/json"
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		return err
	}

	// A 401 without a token is a failed sign-in, not an expired session.
	if resp.Status == http.StatusUnauthorized && token != "" {
		c.expire(ctx, cl.path)
		return ErrAuthExpired
	}
	if resp.Status >= 400 {
		return newAPIError(req, resp.Status, resp.Body)
	}

	if cl.out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := validateBody(cl.path, cl.schema, resp.Body); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, cl.out); err != nil {
		return &ErrInvalidResponse{Path: cl.path, Content: resp.Body, Err: err}
	}
	return nil
}

func (c *Client) expire(ctx context.Context, path string) {
	c.log.Info("session rejected, signing out", zap.String("path", path))
	if err := c.session.Expire(ctx); err != nil {
		c.log.Warn("failed to clear expired session", zap.Error(err))
	}
}
