package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dealwarden/dealwarden/internal/api/middleware"
	"github.com/dealwarden/dealwarden/internal/itad"
)

// SearchHandler proxies title searches to the pricing service.
type SearchHandler struct {
	pricing itad.Client
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(pricing itad.Client) *SearchHandler {
	return &SearchHandler{pricing: pricing}
}

// SearchInput is the query for a title search.
type SearchInput struct {
	Title string `query:"title" minLength:"2" maxLength:"200" doc:"Title to search for"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"50"`
}

// SearchOutput is the response body for a title search.
type SearchOutput struct {
	Body []itad.SearchResult
}

// Search looks up games on the pricing service so users can pick one to track.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	results, err := h.pricing.Search(ctx, input.Title, input.Limit)
	if err != nil {
		return nil, huma.Error502BadGateway("pricing service search failed: " + err.Error())
	}
	if results == nil {
		results = []itad.SearchResult{}
	}
	return &SearchOutput{Body: results}, nil
}

// RegisterSearchRoutes registers the search endpoint with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler, authn *middleware.Authenticator) {
	huma.Register(api, huma.Operation{
		OperationID: "search-games",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search the pricing service by title",
		Tags:        []string{"games"},
		Middlewares: huma.Middlewares{authn.RequireApproved(api)},
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusBadGateway},
	}, h.Search)
}
