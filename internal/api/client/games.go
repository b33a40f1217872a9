package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dealwarden/dealwarden/internal/itad"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// GameList is a page of tracked games.
type GameList struct {
	Games []domain.Game `json:"games"`
	Total int           `json:"total"`
}

// ListGames returns tracked games, optionally filtered by a title search.
func (c *Client) ListGames(ctx context.Context, search string) (*GameList, error) {
	path := "/api/v1/games"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var list GameList
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetGame returns a single tracked game by ID.
func (c *Client) GetGame(ctx context.Context, id int64) (*domain.Game, error) {
	var g domain.Game
	if err := c.get(ctx, fmt.Sprintf("/api/v1/games/%d", id), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// AddGame starts tracking a game by its IsThereAnyDeal ID.
func (c *Client) AddGame(ctx context.Context, itadID string, threshold float64) (*domain.Game, error) {
	body := map[string]any{"itad_id": itadID, "price_threshold": threshold}
	var g domain.Game
	if err := c.post(ctx, "/api/v1/games", body, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// AddGameByTitle starts tracking a game with just a display title.
func (c *Client) AddGameByTitle(ctx context.Context, title string, threshold float64) (*domain.Game, error) {
	body := map[string]any{"title": title, "price_threshold": threshold}
	var g domain.Game
	if err := c.post(ctx, "/api/v1/games", body, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// SetThreshold changes a game's notification price threshold.
func (c *Client) SetThreshold(ctx context.Context, id int64, threshold float64) (*domain.Game, error) {
	body := map[string]float64{"price_threshold": threshold}
	var g domain.Game
	if err := c.patch(ctx, fmt.Sprintf("/api/v1/games/%d", id), body, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteGame stops tracking a game.
func (c *Client) DeleteGame(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/api/v1/games/%d", id), nil)
}

// GameDeals returns a game's stored deal history, newest first.
func (c *Client) GameDeals(ctx context.Context, id int64, limit int) ([]domain.Deal, error) {
	path := fmt.Sprintf("/api/v1/games/%d/deals", id)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var deals []domain.Deal
	if err := c.get(ctx, path, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

// GameHistory returns a game's price history grouped by shop.
func (c *Client) GameHistory(ctx context.Context, id int64, sinceDays int) ([]domain.ShopHistory, error) {
	path := fmt.Sprintf("/api/v1/games/%d/history", id)
	if sinceDays > 0 {
		path += "?since_days=" + strconv.Itoa(sinceDays)
	}
	var history []domain.ShopHistory
	if err := c.get(ctx, path, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// Search looks up games on the pricing service by title.
func (c *Client) Search(ctx context.Context, title string) ([]itad.SearchResult, error) {
	var results []itad.SearchResult
	path := "/api/v1/search?title=" + url.QueryEscape(title)
	if err := c.get(ctx, path, &results); err != nil {
		return nil, err
	}
	return results, nil
}
