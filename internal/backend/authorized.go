package backend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// Credentials is the token holder an Authorized requester works against.
// session.Session implements it.
type Credentials interface {
	// Tokens returns the current access and refresh tokens.
	Tokens() (access, refresh string)

	// SetAccess persists a refreshed access token.
	SetAccess(ctx context.Context, access string) error

	// Clear drops the credentials after an unrecoverable auth failure.
	Clear(ctx context.Context) error
}

// Authorized performs backend calls on behalf of one session. It attaches
// the access token and, on a 401, refreshes it once and retries.
type Authorized struct {
	client *Client
	creds  Credentials
}

// Authorized returns a requester bound to the given credentials.
func (c *Client) Authorized(creds Credentials) *Authorized {
	return &Authorized{client: c, creds: creds}
}

// Do implements Requester.
func (a *Authorized) Do(ctx context.Context, req Request) (*Response, error) {
	access, refresh := a.creds.Tokens()
	if access == "" && refresh == "" {
		return nil, ErrUnauthorized
	}

	resp, err := a.client.send(ctx, access, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return toResponse(resp)
	}

	newAccess, err := a.client.RefreshToken(ctx, refresh)
	if err != nil {
		// A transport failure during refresh is not proof the session is dead.
		var se *StatusError
		if !errors.As(err, &se) && !errors.Is(err, ErrUnauthorized) {
			return nil, err
		}
		slog.Info("backend session expired", slog.String("url", req.URL))
		if clearErr := a.creds.Clear(ctx); clearErr != nil {
			slog.Warn("clearing expired session", slog.Any("error", clearErr))
		}
		return nil, ErrUnauthorized
	}

	if err := a.creds.SetAccess(ctx, newAccess); err != nil {
		slog.Warn("saving refreshed access token", slog.Any("error", err))
	}

	resp, err = a.client.send(ctx, newAccess, req)
	if err != nil {
		return nil, err
	}
	return toResponse(resp)
}
