package itad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dealwarden/dealwarden/internal/metrics"
)

const (
	defaultBaseURL   = "https://api.isthereanydeal.com"
	defaultCountry   = "US"
	defaultBatchSize = 200
)

// HTTPClient implements Client against the IsThereAnyDeal REST API.
type HTTPClient struct {
	apiKey      string
	baseURL     string
	country     string
	batchSize   int
	client      *http.Client
	rateLimiter *RateLimiter
}

// Option configures the HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(u string) Option {
	return func(c *HTTPClient) {
		c.baseURL = u
	}
}

// WithCountry overrides the default country used for price lookups.
func WithCountry(country string) Option {
	return func(c *HTTPClient) {
		c.country = country
	}
}

// WithBatchSize overrides how many game IDs are sent per price request.
func WithBatchSize(n int) Option {
	return func(c *HTTPClient) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter. When set, every API call goes
// through Wait() first.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *HTTPClient) {
		c.rateLimiter = r
	}
}

// NewHTTPClient creates a new IsThereAnyDeal API client.
func NewHTTPClient(apiKey string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
		country:   defaultCountry,
		batchSize: defaultBatchSize,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search implements Client.Search via the games/search endpoint.
func (c *HTTPClient) Search(
	ctx context.Context,
	title string,
	limit int,
) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{}
	params.Set("title", title)
	params.Set("results", strconv.Itoa(limit))

	var results []SearchResult
	if err := c.get(ctx, "/games/search/v1", params, &results); err != nil {
		return nil, fmt.Errorf("searching games: %w", err)
	}
	return results, nil
}

// GameInfo implements Client.GameInfo via the games/info endpoint.
func (c *HTTPClient) GameInfo(ctx context.Context, id string) (*GameInfo, error) {
	params := url.Values{}
	params.Set("id", id)

	info := &GameInfo{}
	if err := c.get(ctx, "/games/info/v2", params, info); err != nil {
		return nil, fmt.Errorf("fetching game info: %w", err)
	}
	return info, nil
}

// Prices implements Client.Prices via the games/prices endpoint. The ID set
// is split into chunks so a single oversized request never hits the API.
func (c *HTTPClient) Prices(ctx context.Context, ids []string) ([]GamePrices, error) {
	params := url.Values{}
	params.Set("country", c.country)
	params.Set("vouchers", "true")

	all := make([]GamePrices, 0, len(ids))
	for _, chunk := range chunkIDs(ids, c.batchSize) {
		var batch []GamePrices
		if err := c.post(ctx, "/games/prices/v3", params, chunk, &batch); err != nil {
			return nil, fmt.Errorf("fetching prices: %w", err)
		}
		all = append(all, batch...)
	}
	return all, nil
}

// Overview implements Client.Overview via the games/overview endpoint.
func (c *HTTPClient) Overview(ctx context.Context, ids []string) (*Overview, error) {
	params := url.Values{}
	params.Set("country", c.country)

	overview := &Overview{}
	if err := c.post(ctx, "/games/overview/v2", params, ids, overview); err != nil {
		return nil, fmt.Errorf("fetching overview: %w", err)
	}
	return overview, nil
}

// History implements Client.History via the games/history endpoint.
func (c *HTTPClient) History(
	ctx context.Context,
	id string,
	since time.Time,
) ([]HistoryEntry, error) {
	params := url.Values{}
	params.Set("id", id)
	if !since.IsZero() {
		params.Set("since", since.UTC().Format(time.RFC3339))
	}

	var entries []HistoryEntry
	if err := c.get(ctx, "/games/history/v2", params, &entries); err != nil {
		return nil, fmt.Errorf("fetching price history: %w", err)
	}
	return entries, nil
}

func (c *HTTPClient) get(
	ctx context.Context,
	path string,
	params url.Values,
	out any,
) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func (c *HTTPClient) post(
	ctx context.Context,
	path string,
	params url.Values,
	body any,
	out any,
) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, params, payload, out)
}

func (c *HTTPClient) do(
	ctx context.Context,
	method, path string,
	params url.Values,
	payload []byte,
	out any,
) error {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	metrics.ITADAPICallsTotal.Inc()

	params.Set("key", c.apiKey)
	u := c.baseURL + path + "?" + params.Encode()

	var reqBody io.Reader = http.NoBody
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(
			"IsThereAnyDeal API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = defaultBatchSize
	}
	var chunks [][]string
	for len(ids) > 0 {
		n := min(size, len(ids))
		chunks = append(chunks, ids[:n])
		ids = ids[n:]
	}
	return chunks
}
