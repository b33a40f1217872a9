package client

import (
	"context"

	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// Session is a token plus the account it belongs to.
type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Me describes the current session.
type Me struct {
	User     domain.User `json:"user"`
	Approved bool        `json:"approved"`
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, email, name, password string) (*Session, error) {
	body := map[string]string{"email": email, "name": name, "password": password}
	var s Session
	if err := c.post(ctx, "/api/v1/auth/register", body, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

// Login exchanges credentials for a session and stores the token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s Session
	if err := c.post(ctx, "/api/v1/auth/login", body, &s); err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

// CurrentUser returns the account behind the stored token.
func (c *Client) CurrentUser(ctx context.Context) (*Me, error) {
	var me Me
	if err := c.get(ctx, "/api/v1/auth/me", &me); err != nil {
		return nil, err
	}
	return &me, nil
}
