package notesdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Register creates a new account. The new user must log in afterwards; no
// session is opened.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", payload, "")
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Login authenticates and returns an active Session. The refresh cookie
// lands in the client's jar; only the access token is held in memory.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	payload, err := json.Marshal(LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", payload, "")
	if err != nil {
		return nil, err
	}

	var body LoginResponse
	if err := decodeJSON(resp, &body, http.StatusOK); err != nil {
		return nil, err
	}

	return &Session{
		client:      c,
		user:        body.User,
		accessToken: body.AccessToken,
	}, nil
}

// refresh trades the jarred refresh cookie for a new pair. The rotated
// refresh cookie replaces the old one in the jar automatically.
func (c *Client) refresh(ctx context.Context) (*RefreshResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/auth/refresh", nil, "")
	if err != nil {
		return nil, err
	}

	var body RefreshResponse
	if err := decodeJSON(resp, &body, http.StatusOK); err != nil {
		return nil, err
	}
	return &body, nil
}

// logout closes the server-side session for the jarred refresh cookie.
func (c *Client) logout(ctx context.Context) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, "")
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
