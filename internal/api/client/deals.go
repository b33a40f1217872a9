package client

import (
	"context"
	"strconv"

	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// BestDeals returns each tracked game's lowest stored price.
func (c *Client) BestDeals(ctx context.Context) ([]domain.GameDeal, error) {
	var deals []domain.GameDeal
	if err := c.get(ctx, "/api/v1/deals", &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

// LatestDeals returns the most recent deal observations across all games.
func (c *Client) LatestDeals(ctx context.Context, limit int) ([]domain.Deal, error) {
	path := "/api/v1/deals/latest"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var deals []domain.Deal
	if err := c.get(ctx, path, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}
