package fileflow

import (
	"context"
	"errors"
	"strings"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for an access token. rawURL is the backend's
// API base URL.
func Login(ctx context.Context, rawURL, email, password string) (*LoginResult, error) {
	c, err := newClient(rawURL)
	if err != nil {
		return nil, err
	}
	return c.Login(ctx, email, password)
}

// Login exchanges credentials for an access token and stores the token on
// the client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	env, err := doPostJSON[LoginResult](ctx, c, "auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if env.Result.Token == "" {
		return nil, &APIError{Code: 401, Message: "login response did not contain a token"}
	}

	c.token = env.Result.Token
	return &env.Result, nil
}

// NewWithCredentials creates a client and signs in with email and password.
func NewWithCredentials(ctx context.Context, rawURL, email, password string) (*Client, error) {
	c, err := newClient(rawURL)
	if err != nil {
		return nil, err
	}
	if _, err := c.Login(ctx, email, password); err != nil {
		return nil, err
	}
	return c, nil
}
