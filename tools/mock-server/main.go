// Package main implements a mock IsThereAnyDeal API server for local
// development. It serves canned responses from a JSON fixture so the refresh
// engine and CLI can be exercised without a real API key.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type fixtureGame struct {
	ID      string          `json:"id"`
	Slug    string          `json:"slug"`
	Title   string          `json:"title"`
	Type    string          `json:"type"`
	Mature  bool            `json:"mature"`
	Info    json.RawMessage `json:"info"`
	Prices  json.RawMessage `json:"prices"`
	History json.RawMessage `json:"history"`
}

type fixtureFile struct {
	Games []fixtureGame `json:"games"`
}

type searchResult struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Mature bool   `json:"mature"`
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixturePath := flag.String("fixture", "tools/mock-server/testdata/games.json", "path to games fixture")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixturePath, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "games", len(fixture.Games))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /games/search/v1", searchHandler(logger, fixture))
	mux.HandleFunc("GET /games/info/v2", infoHandler(logger, fixture))
	mux.HandleFunc("POST /games/prices/v3", pricesHandler(logger, fixture))
	mux.HandleFunc("POST /games/overview/v2", overviewHandler(logger, fixture))
	mux.HandleFunc("GET /games/history/v2", historyHandler(logger, fixture))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock IsThereAnyDeal server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, requireKey(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*fixtureFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

// requireKey rejects requests without a key param the way the real API does.
// Any non-empty value is accepted.
func requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"status_code": 401,
				"reason":      "Unauthorized",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func searchHandler(logger *slog.Logger, fixture *fixtureFile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := strings.ToLower(r.URL.Query().Get("title"))
		limit := 20
		if v, err := strconv.Atoi(r.URL.Query().Get("results")); err == nil && v > 0 {
			limit = v
		}

		results := []searchResult{}
		for _, g := range fixture.Games {
			if title != "" && !strings.Contains(strings.ToLower(g.Title), title) {
				continue
			}
			results = append(results, searchResult{
				ID:     g.ID,
				Slug:   g.Slug,
				Title:  g.Title,
				Type:   g.Type,
				Mature: g.Mature,
			})
			if len(results) == limit {
				break
			}
		}

		writeJSON(w, http.StatusOK, results)
		logger.Info("search", "title", title, "matched", len(results))
	}
}

func infoHandler(logger *slog.Logger, fixture *fixtureFile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		for _, g := range fixture.Games {
			if g.ID == id && g.Info != nil {
				writeRaw(w, http.StatusOK, g.Info)
				logger.Info("info", "id", id)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{
			"status_code": 404,
			"reason":      "Not Found",
		})
		logger.Warn("info miss", "id", id)
	}
}

func pricesHandler(logger *slog.Logger, fixture *fixtureFile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, ok := decodeIDs(w, r)
		if !ok {
			return
		}

		batch := []json.RawMessage{}
		for _, id := range ids {
			for _, g := range fixture.Games {
				if g.ID == id && g.Prices != nil {
					batch = append(batch, g.Prices)
				}
			}
		}

		writeJSON(w, http.StatusOK, batch)
		logger.Info("prices", "requested", len(ids), "returned", len(batch))
	}
}

func overviewHandler(logger *slog.Logger, fixture *fixtureFile) http.HandlerFunc {
	// Overview entries are derived from the prices fixture: the first deal
	// doubles as both the current and the lowest offer.
	type pricesDoc struct {
		ID    string            `json:"id"`
		Deals []json.RawMessage `json:"deals"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ids, ok := decodeIDs(w, r)
		if !ok {
			return
		}

		entries := []map[string]any{}
		for _, id := range ids {
			for _, g := range fixture.Games {
				if g.ID != id || g.Prices == nil {
					continue
				}
				var doc pricesDoc
				//nolint:errcheck,gosec // fixture data is trusted
				json.Unmarshal(g.Prices, &doc)
				entry := map[string]any{"id": g.ID, "bundled": 0}
				if len(doc.Deals) > 0 {
					entry["current"] = doc.Deals[0]
					entry["lowest"] = doc.Deals[0]
				}
				entries = append(entries, entry)
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{"prices": entries})
		logger.Info("overview", "requested", len(ids), "returned", len(entries))
	}
}

func historyHandler(logger *slog.Logger, fixture *fixtureFile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		for _, g := range fixture.Games {
			if g.ID == id && g.History != nil {
				writeRaw(w, http.StatusOK, g.History)
				logger.Info("history", "id", id)
				return
			}
		}
		writeJSON(w, http.StatusOK, []any{})
		logger.Info("history empty", "id", id)
	}
}

func decodeIDs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var ids []string
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status_code": 400,
			"reason":      "Bad Request",
		})
		return nil, false
	}
	return ids, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, data json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	w.Write(data)
}
