package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Request is a single backend call. Path is relative to the base URL.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
}

// Response is a backend reply with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport sends requests to the backend.
//
// Implementations return a Response for every status below 500 except 429,
// leaving status handling to the Client. Network failures and 5xx replies
// are *ErrUnavailable; 429 is *ErrRateLimit.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 16 << 20

// HTTPTransport is the base Transport over net/http.
type HTTPTransport struct {
	baseURL *url.URL
	client  *http.Client
}

// NewHTTPTransport creates a transport for the given base URL.
func NewHTTPTransport(baseURL string, timeout time.Duration) (*HTTPTransport, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &HTTPTransport{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	u := *t.baseURL
	u.Path = u.Path + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrUnavailable{Err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("read body: %w", err)}
	}

	resp := &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: data}

	switch {
	case resp.Status == http.StatusTooManyRequests:
		return resp, &ErrRateLimit{
			RetryAfter: parseRetryAfter(httpResp.Header.Get("Retry-After")),
			Err:        newAPIError(req, resp.Status, data),
		}
	case resp.Status >= 500:
		return resp, &ErrUnavailable{Err: newAPIError(req, resp.Status, data)}
	}
	return resp, nil
}

// parseRetryAfter reads a delay in seconds. HTTP dates are not used by the
// backend and yield 0.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
