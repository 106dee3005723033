// Package backend is the gateway to the adventure REST API. Every call Saga
// makes to the system of record goes through a Client, either anonymously
// (login, registration, token refresh) or through an Authorized requester
// bound to one user session.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// requestIDHeader correlates Saga's logs with the backend's.
const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// WithRequestID returns a context whose backend calls carry the given
// request id instead of a fresh one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Config holds the gateway settings.
type Config struct {
	// BaseURL is the backend origin, e.g. "http://localhost:8000".
	BaseURL string

	// Timeout bounds every backend call.
	Timeout time.Duration
}

// Request describes one backend call. URL is relative to the backend origin
// and keeps its trailing slash (e.g. "/api/adventures/templates/").
type Request struct {
	Method string
	URL    string
	Body   any
}

// Response is a successful (2xx) backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("backend: empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("backend: decoding response: %w", err)
	}
	return nil
}

// Requester is the capability to perform a backend call. Authorized
// implements it; tests substitute fakes.
type Requester interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Client talks to the backend over HTTP.
type Client struct {
	http    *resty.Client
	refresh singleflight.Group
}

// NewClient creates a backend client for the given configuration.
func NewClient(cfg Config) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{http: rc}
}

// send performs one HTTP exchange. A non-empty token is sent as a Bearer
// credential. Non-2xx responses are returned, not converted to errors, so
// that the caller can react to 401.
func (c *Client) send(ctx context.Context, token string, req Request) (*resty.Response, error) {
	r := c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID(ctx))

	if token != "" {
		r.SetAuthToken(token)
	}
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.Body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		return nil, fmt.Errorf("backend: %s %s: %w", method, req.URL, err)
	}

	slog.Debug("backend call",
		slog.String("method", method),
		slog.String("url", req.URL),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("latency", resp.Time()),
	)
	return resp, nil
}

// toResponse converts a raw response into a Response or a StatusError.
func toResponse(resp *resty.Response) (*Response, error) {
	if !resp.IsSuccess() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.Body()}
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// Do performs an anonymous backend call.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.send(ctx, "", req)
	if err != nil {
		return nil, err
	}
	return toResponse(resp)
}
