// Package itad provides an IsThereAnyDeal API client abstracted behind an
// interface for testability.
package itad

import (
	"context"
	"time"
)

// SearchResult is a single game returned by the title search endpoint.
type SearchResult struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Mature bool   `json:"mature"`
}

// Assets holds the artwork URLs attached to a game.
type Assets struct {
	Boxart    string `json:"boxart"`
	Banner145 string `json:"banner145"`
	Banner300 string `json:"banner300"`
	Banner400 string `json:"banner400"`
	Banner600 string `json:"banner600"`
}

// Review is an aggregated review score from one source.
type Review struct {
	Score  int    `json:"score"`
	Source string `json:"source"`
	Count  int    `json:"count"`
	URL    string `json:"url"`
}

// GameInfo is the detailed metadata for a single game.
type GameInfo struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Mature      bool     `json:"mature"`
	EarlyAccess bool     `json:"earlyAccess"`
	Assets      Assets   `json:"assets"`
	Tags        []string `json:"tags"`
	ReleaseDate string   `json:"releaseDate"`
	Reviews     []Review `json:"reviews"`
}

// Shop identifies a storefront.
type Shop struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Price is an amount in the requested currency.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// NamedRef is a referenced entity such as a DRM platform.
type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DealListing is one current offer for a game at one shop.
type DealListing struct {
	Shop      Shop       `json:"shop"`
	Price     Price      `json:"price"`
	Regular   Price      `json:"regular"`
	Cut       int        `json:"cut"`
	Voucher   string     `json:"voucher"`
	Flag      string     `json:"flag"`
	DRM       []NamedRef `json:"drm"`
	Platforms []NamedRef `json:"platforms"`
	Timestamp time.Time  `json:"timestamp"`
	Expiry    *time.Time `json:"expiry"`
	URL       string     `json:"url"`
}

// HistoryLow holds the lowest recorded prices over several windows.
type HistoryLow struct {
	All *Price `json:"all"`
	Y1  *Price `json:"y1"`
	M3  *Price `json:"m3"`
}

// GamePrices is the set of current offers for one game.
type GamePrices struct {
	ID         string        `json:"id"`
	HistoryLow HistoryLow    `json:"historyLow"`
	Deals      []DealListing `json:"deals"`
}

// OverviewEntry summarizes the current and lowest price for one game.
type OverviewEntry struct {
	ID      string       `json:"id"`
	Current *DealListing `json:"current"`
	Lowest  *DealListing `json:"lowest"`
	Bundled int          `json:"bundled"`
}

// Overview is the response of the price overview endpoint.
type Overview struct {
	Prices []OverviewEntry `json:"prices"`
}

// HistoryEntry is one recorded price change for a game.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Shop      Shop      `json:"shop"`
	Deal      *struct {
		Price   Price `json:"price"`
		Regular Price `json:"regular"`
		Cut     int   `json:"cut"`
	} `json:"deal"`
}

// Client defines the interface for interacting with the IsThereAnyDeal API.
type Client interface {
	// Search looks up games by title.
	Search(ctx context.Context, title string, limit int) ([]SearchResult, error)

	// GameInfo fetches metadata for a single game by its IsThereAnyDeal ID.
	GameInfo(ctx context.Context, id string) (*GameInfo, error)

	// Prices fetches current offers for the given game IDs. Large ID sets
	// are split into batched requests transparently.
	Prices(ctx context.Context, ids []string) ([]GamePrices, error)

	// Overview fetches the current/lowest price summary for the given IDs.
	Overview(ctx context.Context, ids []string) (*Overview, error)

	// History fetches recorded price changes for one game since the given time.
	History(ctx context.Context, id string, since time.Time) ([]HistoryEntry, error)
}
