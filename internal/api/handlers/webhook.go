package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dealwarden/dealwarden/internal/api/middleware"
	"github.com/dealwarden/dealwarden/internal/itad"
	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// DealIngester defines the engine method required by the webhook handler.
type DealIngester interface {
	IngestDeal(ctx context.Context, externalID string, listing itad.DealListing) (*domain.Deal, error)
}

// WebhookHandler accepts deal push notifications from the pricing service.
type WebhookHandler struct {
	engine DealIngester
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(eng DealIngester) *WebhookHandler {
	return &WebhookHandler{engine: eng}
}

// webhookDeal is the pushed listing payload. Every field is optional: the
// pricing service omits whatever it does not know, so the wire shape cannot
// share the stricter listing struct used for poll responses.
type webhookDeal struct {
	Shop      itad.Shop       `json:"shop,omitempty"`
	Price     itad.Price      `json:"price,omitempty"`
	Regular   itad.Price      `json:"regular,omitempty"`
	Cut       int             `json:"cut,omitempty"`
	Voucher   string          `json:"voucher,omitempty"`
	Flag      string          `json:"flag,omitempty"`
	DRM       []itad.NamedRef `json:"drm,omitempty"`
	Platforms []itad.NamedRef `json:"platforms,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
	Expiry    *time.Time      `json:"expiry,omitempty"`
	URL       string          `json:"url,omitempty"`
}

// listing converts the webhook payload to the listing shape the engine
// ingests.
func (d *webhookDeal) listing() itad.DealListing {
	return itad.DealListing{
		Shop:      d.Shop,
		Price:     d.Price,
		Regular:   d.Regular,
		Cut:       d.Cut,
		Voucher:   d.Voucher,
		Flag:      d.Flag,
		DRM:       d.DRM,
		Platforms: d.Platforms,
		Timestamp: d.Timestamp,
		Expiry:    d.Expiry,
		URL:       d.URL,
	}
}

// WebhookInput is a pushed event from the pricing service. The event kind
// travels in a header; deal events carry the game and listing in the body.
type WebhookInput struct {
	Event string `header:"ITAD-Event" doc:"Event kind, ping or deal"`
	Body  struct {
		GameID string       `json:"game_id,omitempty" doc:"External pricing-service game ID"`
		Deal   *webhookDeal `json:"deal,omitempty"`
	}
}

// WebhookOutput is the acknowledgement for a pushed event.
type WebhookOutput struct {
	Body struct {
		Status string       `json:"status" example:"recorded"`
		Deal   *domain.Deal `json:"deal,omitempty"`
	}
}

// ReceiveEvent handles a pushed event. Ping events are acknowledged without
// side effects; deal events are recorded and run through the same
// notification policy as a scheduled refresh.
func (h *WebhookHandler) ReceiveEvent(
	ctx context.Context,
	input *WebhookInput,
) (*WebhookOutput, error) {
	resp := &WebhookOutput{}

	switch input.Event {
	case "ping":
		resp.Body.Status = "pong"
		return resp, nil
	case "deal":
		if input.Body.GameID == "" || input.Body.Deal == nil {
			return nil, huma.Error422UnprocessableEntity("deal events require game_id and deal")
		}
		deal, err := h.engine.IngestDeal(ctx, input.Body.GameID, input.Body.Deal.listing())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, huma.Error404NotFound("game is not tracked")
			}
			return nil, huma.Error500InternalServerError("recording deal failed: " + err.Error())
		}
		resp.Body.Status = "recorded"
		resp.Body.Deal = deal
		return resp, nil
	default:
		return nil, huma.Error422UnprocessableEntity("unknown event kind: " + input.Event)
	}
}

// RegisterWebhookRoutes registers the webhook ingress with the Huma API.
// The pricing service authenticates with the shared cron secret header.
func RegisterWebhookRoutes(api huma.API, h *WebhookHandler, authn *middleware.Authenticator) {
	huma.Register(api, huma.Operation{
		OperationID: "webhook-event",
		Method:      http.MethodPost,
		Path:        "/api/v1/webhooks/itad",
		Summary:     "Receive a pricing-service push event",
		Tags:        []string{"webhooks"},
		Middlewares: huma.Middlewares{authn.CronOrAdmin(api)},
		Errors: []int{
			http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusUnprocessableEntity,
		},
	}, h.ReceiveEvent)
}
