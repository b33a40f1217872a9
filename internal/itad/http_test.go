package itad_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealwarden/dealwarden/internal/itad"
)

func TestHTTPClient_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantErr    bool
		errContain string
		wantCount  int
	}{
		{
			name: "successful search",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/games/search/v1", r.URL.Path)
				assert.Equal(t, "test-key", r.URL.Query().Get("key"))
				assert.Equal(t, "hades", r.URL.Query().Get("title"))
				assert.Equal(t, "5", r.URL.Query().Get("results"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[
					{"id": "01858f...", "slug": "hades", "title": "Hades", "type": "game"},
					{"id": "018d93...", "slug": "hades-ii", "title": "Hades II", "type": "game"}
				]`))
			},
			wantCount: 2,
		},
		{
			name: "server error propagates",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error": "boom"}`))
			},
			wantErr:    true,
			errContain: "status 500",
		},
		{
			name: "malformed JSON",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
			wantErr:    true,
			errContain: "parsing response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := itad.NewHTTPClient("test-key", itad.WithBaseURL(srv.URL))
			results, err := client.Search(context.Background(), "hades", 5)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
				return
			}
			require.NoError(t, err)
			assert.Len(t, results, tt.wantCount)
		})
	}
}

func TestHTTPClient_Prices_ChunksRequests(t *testing.T) {
	t.Parallel()

	var gotBatches [][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/prices/v3", r.URL.Path)
		assert.Equal(t, "US", r.URL.Query().Get("country"))

		var ids []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		gotBatches = append(gotBatches, ids)

		out := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			out = append(out, map[string]any{"id": id, "deals": []any{}})
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
	defer srv.Close()

	client := itad.NewHTTPClient(
		"test-key",
		itad.WithBaseURL(srv.URL),
		itad.WithBatchSize(2),
	)

	ids := []string{"a", "b", "c", "d", "e"}
	prices, err := client.Prices(context.Background(), ids)
	require.NoError(t, err)

	assert.Len(t, prices, 5)
	require.Len(t, gotBatches, 3)
	assert.Equal(t, []string{"a", "b"}, gotBatches[0])
	assert.Equal(t, []string{"c", "d"}, gotBatches[1])
	assert.Equal(t, []string{"e"}, gotBatches[2])
}

func TestHTTPClient_Prices_EmptyIDs(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected for empty ID set")
	}))
	defer srv.Close()

	client := itad.NewHTTPClient("test-key", itad.WithBaseURL(srv.URL))
	prices, err := client.Prices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestHTTPClient_Prices_BatchErrorAborts(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var ids []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ids))
		out := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			out = append(out, map[string]any{"id": id, "deals": []any{}})
		}
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
	defer srv.Close()

	client := itad.NewHTTPClient(
		"test-key",
		itad.WithBaseURL(srv.URL),
		itad.WithBatchSize(1),
	)

	_, err := client.Prices(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Equal(t, 2, calls)
}

func TestHTTPClient_GameInfo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/info/v2", r.URL.Path)
		assert.Equal(t, "some-id", r.URL.Query().Get("id"))

		_, _ = w.Write([]byte(`{
			"id": "some-id",
			"slug": "celeste",
			"title": "Celeste",
			"type": "game",
			"earlyAccess": false,
			"assets": {"boxart": "https://img/boxart.jpg", "banner600": "https://img/banner600.jpg"},
			"tags": ["Platformer", "Indie"],
			"releaseDate": "2018-01-25",
			"reviews": [{"score": 92, "source": "Metacritic", "count": 50}]
		}`))
	}))
	defer srv.Close()

	client := itad.NewHTTPClient("test-key", itad.WithBaseURL(srv.URL))
	info, err := client.GameInfo(context.Background(), "some-id")
	require.NoError(t, err)

	assert.Equal(t, "Celeste", info.Title)
	assert.Equal(t, "https://img/banner600.jpg", info.Assets.Banner600)
	assert.Equal(t, []string{"Platformer", "Indie"}, info.Tags)
	require.Len(t, info.Reviews, 1)
	assert.Equal(t, 92, info.Reviews[0].Score)
}

func TestHTTPClient_History(t *testing.T) {
	t.Parallel()

	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/history/v2", r.URL.Path)
		assert.Equal(t, "game-1", r.URL.Query().Get("id"))
		assert.Equal(t, since.Format(time.RFC3339), r.URL.Query().Get("since"))

		_, _ = w.Write([]byte(`[
			{"timestamp": "2025-07-01T12:00:00Z", "shop": {"id": 61, "name": "Steam"},
			 "deal": {"price": {"amount": 9.99, "currency": "USD"}, "regular": {"amount": 19.99, "currency": "USD"}, "cut": 50}}
		]`))
	}))
	defer srv.Close()

	client := itad.NewHTTPClient("test-key", itad.WithBaseURL(srv.URL))
	entries, err := client.History(context.Background(), "game-1", since)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "Steam", entries[0].Shop.Name)
	require.NotNil(t, entries[0].Deal)
	assert.InEpsilon(t, 9.99, entries[0].Deal.Price.Amount, 0.0001)
}

func TestHTTPClient_RateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	limiter := itad.NewRateLimiter(100, 1)
	client := itad.NewHTTPClient(
		"test-key",
		itad.WithBaseURL(srv.URL),
		itad.WithRateLimiter(limiter),
	)

	for i := range 3 {
		_, err := client.Search(context.Background(), fmt.Sprintf("q%d", i), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), limiter.CallCount())
}
