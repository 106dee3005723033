package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Token endpoints of the backend.
const (
	tokenURL    = "/api/auth/token/"
	refreshURL  = "/api/auth/token/refresh/"
	registerURL = "/api/users/register/"
	meURL       = "/api/users/me/"
)

// TokenPair is the JWT pair issued on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User is the profile returned by /api/users/me/.
type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Credits    int    `json:"credits"`
	AdminLevel *int   `json:"admin_level,omitempty"`
}

// RegisterInput is the body of a registration call.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// ObtainToken exchanges credentials for a token pair. Wrong credentials
// surface as a StatusError with code 401.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (*TokenPair, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    tokenURL,
		Body:   map[string]string{"username": username, "password": password},
	})
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := resp.Decode(&pair); err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, errors.New("backend: token response without access token")
	}
	return &pair, nil
}

// RefreshToken trades a refresh token for a new access token. Concurrent
// calls with the same refresh token share one backend round trip.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", ErrUnauthorized
	}

	v, err, _ := c.refresh.Do(refresh, func() (any, error) {
		resp, err := c.Do(ctx, Request{
			Method: http.MethodPost,
			URL:    refreshURL,
			Body:   map[string]string{"refresh": refresh},
		})
		if err != nil {
			return "", err
		}

		var body struct {
			Access string `json:"access"`
		}
		if err := resp.Decode(&body); err != nil {
			return "", err
		}
		if body.Access == "" {
			return "", errors.New("backend: refresh response without access token")
		}
		return body.Access, nil
	})
	if err != nil {
		return "", fmt.Errorf("refreshing token: %w", err)
	}
	return v.(string), nil
}

// Register creates a backend account.
func (c *Client) Register(ctx context.Context, input RegisterInput) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    registerURL,
		Body:   input,
	})
	return err
}

// Me fetches the profile of the user owning the access token.
func (c *Client) Me(ctx context.Context, access string) (*User, error) {
	resp, err := c.send(ctx, access, Request{Method: http.MethodGet, URL: meURL})
	if err != nil {
		return nil, err
	}
	ok, err := toResponse(resp)
	if err != nil {
		return nil, err
	}

	var u User
	if err := ok.Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}
