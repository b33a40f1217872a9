package client

import (
	"context"
	"fmt"

	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// CreateInvites generates a batch of invite codes (admin only).
func (c *Client) CreateInvites(ctx context.Context, count int) ([]domain.InviteCode, error) {
	body := map[string]int{"count": count}
	var invites []domain.InviteCode
	if err := c.post(ctx, "/api/v1/invites", body, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

// ListInvites returns all invite codes (admin only).
func (c *Client) ListInvites(ctx context.Context) ([]domain.InviteCode, error) {
	var invites []domain.InviteCode
	if err := c.get(ctx, "/api/v1/invites", &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

// RedeemInvite claims an invite code for the logged-in account.
func (c *Client) RedeemInvite(ctx context.Context, code string) (*domain.InviteCode, error) {
	body := map[string]string{"code": code}
	var inv domain.InviteCode
	if err := c.post(ctx, "/api/v1/invites/redeem", body, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// DeleteInvite removes an unredeemed invite code (admin only).
func (c *Client) DeleteInvite(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/api/v1/invites/%d", id), nil)
}
