package apiclient

import (
	"context"
	"sync"
)

// mockReply is one scripted transport result.
type mockReply struct {
	Resp *Response
	Err  error
}

// mockTransport returns scripted replies in order, repeating the last one.
type mockTransport struct {
	mu      sync.Mutex
	replies []mockReply
	calls   []*Request
}

func newMockTransport(replies ...mockReply) *mockTransport {
	return &mockTransport{replies: replies}
}

func (m *mockTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := len(m.calls)
	m.calls = append(m.calls, req)
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	r := m.replies[idx]
	return r.Resp, r.Err
}

func (m *mockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func ok(body string) mockReply {
	return mockReply{Resp: &Response{Status: 200, Body: []byte(body)}}
}
