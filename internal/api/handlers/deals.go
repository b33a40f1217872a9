package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dealwarden/dealwarden/internal/api/middleware"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// DealsProvider defines the store methods required by the deals handler.
type DealsProvider interface {
	BestDeals(ctx context.Context) ([]domain.GameDeal, error)
	ListLatestDeals(ctx context.Context, limit int) ([]domain.Deal, error)
}

// DealsHandler serves cross-game deal views.
type DealsHandler struct {
	store DealsProvider
}

// NewDealsHandler creates a new DealsHandler.
func NewDealsHandler(s DealsProvider) *DealsHandler {
	return &DealsHandler{store: s}
}

// BestDealsOutput is the response body for the best-deals view.
type BestDealsOutput struct {
	Body []domain.GameDeal
}

// BestDeals returns each tracked game's lowest stored price.
func (h *DealsHandler) BestDeals(ctx context.Context, _ *struct{}) (*BestDealsOutput, error) {
	deals, err := h.store.BestDeals(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing best deals failed: " + err.Error())
	}
	if deals == nil {
		deals = []domain.GameDeal{}
	}
	return &BestDealsOutput{Body: deals}, nil
}

// LatestDealsInput is the query for recent deal observations.
type LatestDealsInput struct {
	Limit int `query:"limit" default:"50" minimum:"1" maximum:"500"`
}

// LatestDealsOutput is the response body for recent deal observations.
type LatestDealsOutput struct {
	Body []domain.Deal
}

// LatestDeals returns the most recent deal observations across all games.
func (h *DealsHandler) LatestDeals(
	ctx context.Context,
	input *LatestDealsInput,
) (*LatestDealsOutput, error) {
	deals, err := h.store.ListLatestDeals(ctx, input.Limit)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing deals failed: " + err.Error())
	}
	if deals == nil {
		deals = []domain.Deal{}
	}
	return &LatestDealsOutput{Body: deals}, nil
}

// RegisterDealRoutes registers deal view endpoints with the Huma API.
func RegisterDealRoutes(api huma.API, h *DealsHandler, authn *middleware.Authenticator) {
	approved := huma.Middlewares{authn.RequireApproved(api)}

	huma.Register(api, huma.Operation{
		OperationID: "best-deals",
		Method:      http.MethodGet,
		Path:        "/api/v1/deals",
		Summary:     "List the best stored deal per game",
		Tags:        []string{"deals"},
		Middlewares: approved,
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError},
	}, h.BestDeals)

	huma.Register(api, huma.Operation{
		OperationID: "latest-deals",
		Method:      http.MethodGet,
		Path:        "/api/v1/deals/latest",
		Summary:     "List recent deal observations",
		Tags:        []string{"deals"},
		Middlewares: approved,
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError},
	}, h.LatestDeals)
}
