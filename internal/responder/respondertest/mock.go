// Package respondertest provides test helpers for the responder package.
package respondertest

import (
	"context"
	"sync"

	"github.com/megachat/megachat/internal/responder"
)

// MockResponder is a configurable test double for responder.Responder.
// Set ReplyFunc to control behavior; an unset func panics on call.
// All methods are safe for concurrent use.
type MockResponder struct {
	ReplyFunc func(ctx context.Context, req responder.Request) (string, error)

	mu       sync.Mutex
	calls    int
	requests []responder.Request
}

// Reply delegates to ReplyFunc and records the request.
func (m *MockResponder) Reply(ctx context.Context, req responder.Request) (string, error) {
	m.mu.Lock()
	m.calls++
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.ReplyFunc(ctx, req)
}

// Calls returns the number of Reply invocations so far.
func (m *MockResponder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastRequest returns the most recent request, or the zero value when Reply
// has not been called.
func (m *MockResponder) LastRequest() responder.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return responder.Request{}
	}
	return m.requests[len(m.requests)-1]
}

// Interface guard.
var _ responder.Responder = (*MockResponder)(nil)
