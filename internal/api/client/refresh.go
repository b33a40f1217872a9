package client

import (
	"context"

	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// RefreshResult is the outcome of a manually triggered refresh pass.
type RefreshResult struct {
	Status string              `json:"status"`
	Stats  domain.RefreshStats `json:"stats"`
}

// TriggerRefresh runs one refresh pass and waits for it to finish.
func (c *Client) TriggerRefresh(ctx context.Context) (*RefreshResult, error) {
	var result RefreshResult
	if err := c.post(ctx, "/api/v1/refresh", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RefreshHistory returns recent refresh job runs, newest first (admin only).
func (c *Client) RefreshHistory(ctx context.Context) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	if err := c.get(ctx, "/api/v1/refresh/history", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
