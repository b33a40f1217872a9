package engine

import (
	"context"
	"fmt"

	"github.com/dealwarden/dealwarden/internal/itad"
	"github.com/dealwarden/dealwarden/internal/metrics"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// IngestDeal records a single pushed deal for a tracked game and applies the
// same notification policy as a refresh pass. Returns store.ErrNotFound when
// the game is not tracked.
func (eng *Engine) IngestDeal(
	ctx context.Context,
	externalID string,
	listing itad.DealListing,
) (*domain.Deal, error) {
	game, err := eng.store.GetGameByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	prevBest, err := eng.store.BestPriceByGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshotting best prices: %w", err)
	}

	deal := itad.DealFromListing(game.ID, listing, domain.SourceWebhook, eng.nowFunc())
	if _, err := eng.store.InsertDeals(ctx, []domain.Deal{deal}); err != nil {
		return nil, fmt.Errorf("persisting pushed deal: %w", err)
	}
	metrics.WebhookDealsTotal.Inc()
	metrics.DealsWrittenTotal.Inc()

	if payload, ok := eng.evaluateDeal(game, listing, prevBest); ok {
		if err := eng.notifier.SendDeal(ctx, payload); err != nil {
			// A failed notification never fails the ingest: the deal is
			// already recorded.
			eng.log.Error("webhook notification failed", "game", game.Title, "error", err)
			metrics.NotificationFailuresTotal.Inc()
		} else {
			metrics.NotificationsSentTotal.Inc()
		}
	}

	return &deal, nil
}
