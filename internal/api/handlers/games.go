package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dealwarden/dealwarden/internal/api/middleware"
	"github.com/dealwarden/dealwarden/internal/itad"
	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// GamesProvider defines the store methods required by the games handler.
type GamesProvider interface {
	CreateGame(ctx context.Context, g *domain.Game) error
	GetGame(ctx context.Context, id int64) (*domain.Game, error)
	ListGames(ctx context.Context, opts *store.GameQuery) ([]domain.Game, int, error)
	UpdateGameThreshold(ctx context.Context, id int64, threshold float64) error
	DeleteGame(ctx context.Context, id int64) error
	ListDealsByGame(ctx context.Context, gameID int64, limit int) ([]domain.Deal, error)
	InsertDeals(ctx context.Context, deals []domain.Deal) (int, error)
}

// GamesHandler handles tracked-game CRUD and lookups.
type GamesHandler struct {
	store   GamesProvider
	pricing itad.Client
	log     *slog.Logger
}

// NewGamesHandler creates a new GamesHandler.
func NewGamesHandler(s GamesProvider, pricing itad.Client) *GamesHandler {
	return &GamesHandler{store: s, pricing: pricing, log: slog.Default()}
}

// ListGamesInput is the query for listing tracked games.
type ListGamesInput struct {
	Search  string `query:"search" doc:"Case-insensitive title filter"`
	Limit   int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
	Offset  int    `query:"offset" minimum:"0"`
	OrderBy string `query:"order_by" enum:"title,created_at" default:"title"`
}

// ListGamesOutput is the response body for listing tracked games.
type ListGamesOutput struct {
	Body struct {
		Games []domain.Game `json:"games"`
		Total int           `json:"total"`
	}
}

// ListGames returns tracked games with optional search and paging.
func (h *GamesHandler) ListGames(
	ctx context.Context,
	input *ListGamesInput,
) (*ListGamesOutput, error) {
	games, total, err := h.store.ListGames(ctx, &store.GameQuery{
		Search:  input.Search,
		Limit:   input.Limit,
		Offset:  input.Offset,
		OrderBy: input.OrderBy,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("listing games failed: " + err.Error())
	}
	if games == nil {
		games = []domain.Game{}
	}

	resp := &ListGamesOutput{}
	resp.Body.Games = games
	resp.Body.Total = total
	return resp, nil
}

// GetGameInput is the request path for a single game.
type GetGameInput struct {
	ID int64 `path:"id" doc:"Game ID"`
}

// GetGameOutput is the response body for a single game.
type GetGameOutput struct {
	Body domain.Game
}

// GetGame returns a single tracked game.
func (h *GamesHandler) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	g, err := h.store.GetGame(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("game not found")
		}
		return nil, huma.Error500InternalServerError("fetching game failed: " + err.Error())
	}
	return &GetGameOutput{Body: *g}, nil
}

// AddGameInput is the request body for tracking a new game.
type AddGameInput struct {
	Body struct {
		ITADID         string  `json:"itad_id,omitempty" doc:"IsThereAnyDeal game ID; when set, metadata is fetched automatically"`
		Title          string  `json:"title,omitempty" maxLength:"200" doc:"Title for manually added games"`
		PriceThreshold float64 `json:"price_threshold,omitempty" minimum:"0" doc:"Notify only at or below this price; 0 accepts any discount"`
	}
}

// AddGameOutput is the response body for tracking a new game.
type AddGameOutput struct {
	Body domain.Game
}

// AddGame starts tracking a game. With an IsThereAnyDeal ID the title,
// artwork, tags, and historical low are pulled from the pricing service;
// without one a bare title is enough.
func (h *GamesHandler) AddGame(ctx context.Context, input *AddGameInput) (*AddGameOutput, error) {
	if input.Body.ITADID == "" && input.Body.Title == "" {
		return nil, huma.Error422UnprocessableEntity("either itad_id or title is required")
	}

	g := &domain.Game{
		Title:          input.Body.Title,
		PriceThreshold: input.Body.PriceThreshold,
	}
	if user, ok := middleware.UserFromContext(ctx); ok {
		g.AddedBy = &user.ID
	}

	if input.Body.ITADID != "" {
		if err := h.enrichFromPricing(ctx, g, input.Body.ITADID); err != nil {
			return nil, err
		}
	}

	if err := h.store.CreateGame(ctx, g); err != nil {
		if errors.Is(err, store.ErrDuplicateGame) {
			return nil, huma.Error409Conflict("game is already tracked")
		}
		return nil, huma.Error500InternalServerError("creating game failed: " + err.Error())
	}

	if g.ExternalID != nil {
		h.seedInitialDeals(ctx, g)
	}

	return &AddGameOutput{Body: *g}, nil
}

// seedInitialDeals stores the current listings for a freshly linked game so
// its deal history starts at add time instead of waiting for the next refresh
// pass. Failures are logged and swallowed: the game is already tracked.
func (h *GamesHandler) seedInitialDeals(ctx context.Context, g *domain.Game) {
	prices, err := h.pricing.Prices(ctx, []string{*g.ExternalID})
	if err != nil {
		h.log.Warn("initial price fetch failed", "game", g.Title, "error", err)
		return
	}

	now := time.Now()
	var deals []domain.Deal
	for _, gp := range prices {
		if gp.ID != *g.ExternalID {
			continue
		}
		for _, listing := range gp.Deals {
			deals = append(deals, itad.DealFromListing(g.ID, listing, domain.SourcePoll, now))
		}
	}
	if len(deals) == 0 {
		return
	}

	if _, err := h.store.InsertDeals(ctx, deals); err != nil {
		h.log.Warn("seeding initial deals failed", "game", g.Title, "error", err)
	}
}

// enrichFromPricing fills game metadata from the pricing service. The
// historical low lookup is best-effort: metadata failures abort the add,
// missing price history does not.
func (h *GamesHandler) enrichFromPricing(ctx context.Context, g *domain.Game, itadID string) error {
	info, err := h.pricing.GameInfo(ctx, itadID)
	if err != nil {
		return huma.Error502BadGateway("pricing service lookup failed: " + err.Error())
	}

	ext := itadID
	g.ExternalID = &ext
	g.Title = info.Title
	g.Slug = info.Slug
	g.GameType = info.Type
	g.BoxartURL = info.Assets.Boxart
	g.BannerURL = itad.BannerURL(info.Assets)
	g.ReleaseDate = info.ReleaseDate
	g.Tags = info.Tags
	g.ReviewScore = itad.BestReviewScore(info.Reviews)
	g.EarlyAccess = info.EarlyAccess

	overview, err := h.pricing.Overview(ctx, []string{itadID})
	if err != nil || overview == nil {
		return nil
	}
	for _, entry := range overview.Prices {
		if entry.ID == itadID && entry.Lowest != nil {
			low := entry.Lowest.Price.Amount
			g.HistoryLow = &low
			g.HistoryLowStore = entry.Lowest.Shop.Name
		}
	}
	return nil
}

// UpdateGameInput is the request for changing a game's notification threshold.
type UpdateGameInput struct {
	ID   int64 `path:"id" doc:"Game ID"`
	Body struct {
		PriceThreshold float64 `json:"price_threshold" minimum:"0"`
	}
}

// UpdateGameOutput is the response body after a threshold change.
type UpdateGameOutput struct {
	Body domain.Game
}

// UpdateGame changes the notification price threshold for a game.
func (h *GamesHandler) UpdateGame(
	ctx context.Context,
	input *UpdateGameInput,
) (*UpdateGameOutput, error) {
	if err := h.store.UpdateGameThreshold(ctx, input.ID, input.Body.PriceThreshold); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("game not found")
		}
		return nil, huma.Error500InternalServerError("updating game failed: " + err.Error())
	}

	g, err := h.store.GetGame(ctx, input.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("fetching game failed: " + err.Error())
	}
	return &UpdateGameOutput{Body: *g}, nil
}

// DeleteGameInput is the request path for deleting a game.
type DeleteGameInput struct {
	ID int64 `path:"id" doc:"Game ID"`
}

// DeleteGame stops tracking a game and removes its deal history.
func (h *GamesHandler) DeleteGame(ctx context.Context, input *DeleteGameInput) (*struct{}, error) {
	if err := h.store.DeleteGame(ctx, input.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("game not found")
		}
		return nil, huma.Error500InternalServerError("deleting game failed: " + err.Error())
	}
	return nil, nil
}

// GameDealsInput is the request for a game's stored deal history.
type GameDealsInput struct {
	ID    int64 `path:"id" doc:"Game ID"`
	Limit int   `query:"limit" default:"50" minimum:"1" maximum:"500"`
}

// GameDealsOutput is the response body for a game's stored deal history.
type GameDealsOutput struct {
	Body []domain.Deal
}

// GameDeals returns a game's stored deal observations, newest first.
func (h *GamesHandler) GameDeals(
	ctx context.Context,
	input *GameDealsInput,
) (*GameDealsOutput, error) {
	if _, err := h.store.GetGame(ctx, input.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("game not found")
		}
		return nil, huma.Error500InternalServerError("fetching game failed: " + err.Error())
	}

	deals, err := h.store.ListDealsByGame(ctx, input.ID, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing deals failed: " + err.Error())
	}
	if deals == nil {
		deals = []domain.Deal{}
	}
	return &GameDealsOutput{Body: deals}, nil
}

// GameHistoryInput is the request for a game's shop price history.
type GameHistoryInput struct {
	ID        int64 `path:"id" doc:"Game ID"`
	SinceDays int   `query:"since_days" default:"365" minimum:"1" maximum:"3650" doc:"How far back to fetch"`
}

// GameHistoryOutput is the response body for a game's shop price history.
type GameHistoryOutput struct {
	Body []domain.ShopHistory
}

// GameHistory proxies the pricing service's recorded price changes for a
// game, grouped by shop in chronological order.
func (h *GamesHandler) GameHistory(
	ctx context.Context,
	input *GameHistoryInput,
) (*GameHistoryOutput, error) {
	g, err := h.store.GetGame(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("game not found")
		}
		return nil, huma.Error500InternalServerError("fetching game failed: " + err.Error())
	}
	if g.ExternalID == nil {
		return nil, huma.Error422UnprocessableEntity(
			"game is not linked to the pricing service")
	}

	since := time.Now().AddDate(0, 0, -input.SinceDays)
	entries, err := h.pricing.History(ctx, *g.ExternalID, since)
	if err != nil {
		return nil, huma.Error502BadGateway("pricing service lookup failed: " + err.Error())
	}

	return &GameHistoryOutput{Body: groupHistoryByShop(entries)}, nil
}

// groupHistoryByShop buckets price change entries per shop, preserving the
// chronological order within each shop.
func groupHistoryByShop(entries []itad.HistoryEntry) []domain.ShopHistory {
	index := make(map[int]int)
	out := []domain.ShopHistory{}

	for _, e := range entries {
		if e.Deal == nil {
			continue
		}

		i, ok := index[e.Shop.ID]
		if !ok {
			i = len(out)
			index[e.Shop.ID] = i
			out = append(out, domain.ShopHistory{
				Shop: domain.Shop{ID: e.Shop.ID, Name: e.Shop.Name},
			})
		}

		out[i].Prices = append(out[i].Prices, domain.PricePoint{
			Amount:    e.Deal.Price.Amount,
			Timestamp: e.Timestamp.Unix(),
		})
	}
	return out
}

// RegisterGameRoutes registers game endpoints with the Huma API. Reads and
// writes require an approved account; deletion is admin only.
func RegisterGameRoutes(api huma.API, h *GamesHandler, authn *middleware.Authenticator) {
	approved := huma.Middlewares{authn.RequireApproved(api)}

	huma.Register(api, huma.Operation{
		OperationID: "list-games",
		Method:      http.MethodGet,
		Path:        "/api/v1/games",
		Summary:     "List tracked games",
		Tags:        []string{"games"},
		Middlewares: approved,
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError},
	}, h.ListGames)

	huma.Register(api, huma.Operation{
		OperationID: "get-game",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}",
		Summary:     "Get a tracked game",
		Tags:        []string{"games"},
		Middlewares: approved,
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, h.GetGame)

	huma.Register(api, huma.Operation{
		OperationID: "add-game",
		Method:      http.MethodPost,
		Path:        "/api/v1/games",
		Summary:     "Track a new game",
		Description: "Starts tracking a game for price drops, pulling metadata " +
			"from the pricing service when an IsThereAnyDeal ID is given.",
		Tags:        []string{"games"},
		Middlewares: approved,
		Errors: []int{
			http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict,
			http.StatusUnprocessableEntity, http.StatusBadGateway,
		},
	}, h.AddGame)

	huma.Register(api, huma.Operation{
		OperationID: "update-game",
		Method:      http.MethodPatch,
		Path:        "/api/v1/games/{id}",
		Summary:     "Update a game's price threshold",
		Tags:        []string{"games"},
		Middlewares: approved,
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, h.UpdateGame)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-game",
		Method:        http.MethodDelete,
		Path:          "/api/v1/games/{id}",
		Summary:       "Stop tracking a game",
		Tags:          []string{"games"},
		Middlewares:   huma.Middlewares{authn.RequireAdmin(api)},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, h.DeleteGame)

	huma.Register(api, huma.Operation{
		OperationID: "game-deals",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}/deals",
		Summary:     "Get a game's stored deal history",
		Tags:        []string{"games"},
		Middlewares: approved,
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, h.GameDeals)

	huma.Register(api, huma.Operation{
		OperationID: "game-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}/history",
		Summary:     "Get a game's shop price history",
		Tags:        []string{"games"},
		Middlewares: approved,
		Errors: []int{
			http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound,
			http.StatusUnprocessableEntity, http.StatusBadGateway,
		},
	}, h.GameHistory)
}
