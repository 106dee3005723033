// Package backendtest provides a scripted backend.Requester for handler and
// service tests.
package backendtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/keyxmakerx/saga/internal/backend"
)

// HandlerFunc answers one scripted call.
type HandlerFunc func(req backend.Request) (*backend.Response, error)

// Router dispatches calls by "METHOD URL" and records them. Unscripted calls
// fail with a 404 StatusError.
type Router struct {
	mu     sync.Mutex
	routes map[string]HandlerFunc
	calls  []backend.Request
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]HandlerFunc)}
}

// Handle scripts the answer for method and url.
func (r *Router) Handle(method, url string, fn HandlerFunc) *Router {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[method+" "+url] = fn
	return r
}

// JSON scripts a 200 response carrying v.
func (r *Router) JSON(method, url string, v any) *Router {
	return r.Handle(method, url, func(backend.Request) (*backend.Response, error) {
		return JSON(v), nil
	})
}

// Fail scripts a StatusError with the given code and body.
func (r *Router) Fail(method, url string, code int, body string) *Router {
	return r.Handle(method, url, func(backend.Request) (*backend.Response, error) {
		return nil, &backend.StatusError{Code: code, Body: []byte(body)}
	})
}

// Do implements backend.Requester.
func (r *Router) Do(_ context.Context, req backend.Request) (*backend.Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	r.mu.Lock()
	r.calls = append(r.calls, req)
	fn, ok := r.routes[req.Method+" "+req.URL]
	r.mu.Unlock()

	if !ok {
		return nil, &backend.StatusError{Code: http.StatusNotFound, Body: []byte(fmt.Sprintf(`{"detail":"no route %s %s"}`, req.Method, req.URL))}
	}
	return fn(req)
}

// Calls returns the recorded calls in order.
func (r *Router) Calls() []backend.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]backend.Request, len(r.calls))
	copy(out, r.calls)
	return out
}

// Called reports whether a call to method and url was made.
func (r *Router) Called(method, url string) bool {
	for _, c := range r.Calls() {
		if c.Method == method && c.URL == url {
			return true
		}
	}
	return false
}

// Body returns the JSON encoding of the body of the last call to method
// and url, or nil.
func (r *Router) Body(method, url string) []byte {
	calls := r.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method && calls[i].URL == url {
			raw, _ := json.Marshal(calls[i].Body)
			return raw
		}
	}
	return nil
}

// JSON wraps v in a 200 response.
func JSON(v any) *backend.Response {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return &backend.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: body}
}
