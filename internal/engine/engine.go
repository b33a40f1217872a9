// Package engine orchestrates price refresh passes: polling the pricing
// service, persisting deal history, and firing discount notifications.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dealwarden/dealwarden/internal/itad"
	"github.com/dealwarden/dealwarden/internal/metrics"
	"github.com/dealwarden/dealwarden/internal/notify"
	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// ErrRefreshInFlight is returned when a refresh is triggered while another
// pass is still running.
var ErrRefreshInFlight = errors.New("refresh already in progress")

// jobNameRefresh is the job_runs name for scheduled and manual refreshes.
const jobNameRefresh = "price_refresh"

// Engine coordinates the pricing client, datastore, and notifier.
type Engine struct {
	store    store.Store
	pricing  itad.Client
	notifier notify.Notifier
	log      *slog.Logger

	// refreshMu guards against overlapping refresh passes. TryLock keeps
	// triggers non-blocking: a second caller is rejected, not queued.
	refreshMu sync.Mutex

	nowFunc func() time.Time
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(
	s store.Store,
	pricing itad.Client,
	n notify.Notifier,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:    s,
		pricing:  pricing,
		notifier: n,
		log:      slog.Default(),
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithNowFunc overrides the clock for testing.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// Refresh executes one full price refresh pass and returns its stats.
// Returns ErrRefreshInFlight when another pass holds the lock.
func (eng *Engine) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	if !eng.refreshMu.TryLock() {
		metrics.RefreshRejectedTotal.Inc()
		return nil, ErrRefreshInFlight
	}
	defer eng.refreshMu.Unlock()

	start := eng.nowFunc()
	defer func() {
		metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	}()

	jobRunID, err := eng.store.InsertJobRun(ctx, jobNameRefresh)
	if err != nil {
		// Bookkeeping failure should not block the refresh itself.
		eng.log.Error("recording job run failed", "error", err)
	}

	stats, refreshErr := eng.runRefresh(ctx)
	eng.completeJobRun(ctx, jobRunID, stats, refreshErr)

	if refreshErr != nil {
		metrics.RefreshErrorsTotal.Inc()
		return nil, refreshErr
	}
	return stats, nil
}

func (eng *Engine) runRefresh(ctx context.Context) (*domain.RefreshStats, error) {
	stats := &domain.RefreshStats{}

	games, err := eng.store.ListGamesWithExternalID(ctx)
	if err != nil {
		return stats, fmt.Errorf("listing tracked games: %w", err)
	}
	if len(games) == 0 {
		eng.log.Info("no games linked to the pricing service, nothing to refresh")
		return stats, nil
	}

	// Snapshot best prices before writing anything: notification decisions
	// compare against the pre-pass state, so a pass never races itself.
	prevBest, err := eng.store.BestPriceByGame(ctx)
	if err != nil {
		return stats, fmt.Errorf("snapshotting best prices: %w", err)
	}

	byExternalID := make(map[string]*domain.Game, len(games))
	ids := make([]string, 0, len(games))
	for i := range games {
		g := &games[i]
		byExternalID[*g.ExternalID] = g
		ids = append(ids, *g.ExternalID)
	}

	prices, err := eng.pricing.Prices(ctx, ids)
	if err != nil {
		return stats, fmt.Errorf("fetching prices: %w", err)
	}

	now := eng.nowFunc()
	var allDeals []domain.Deal
	var pending []notify.DealPayload

	for _, gp := range prices {
		game, ok := byExternalID[gp.ID]
		if !ok {
			eng.log.Warn("price response for unknown game", "itad_id", gp.ID)
			continue
		}
		stats.GamesProcessed++

		if len(gp.Deals) == 0 {
			continue
		}

		for _, listing := range gp.Deals {
			allDeals = append(allDeals,
				itad.DealFromListing(game.ID, listing, domain.SourcePoll, now))
		}

		if best, ok := bestQualifyingListing(game, gp.Deals); ok {
			if payload, ok := eng.evaluateDeal(game, best, prevBest); ok {
				pending = append(pending, payload)
			}
		}
	}

	written, err := eng.store.InsertDeals(ctx, allDeals)
	stats.DealsWritten = written
	metrics.DealsWrittenTotal.Add(float64(written))
	if err != nil {
		return stats, fmt.Errorf("persisting deals: %w", err)
	}

	stats.NotificationsSent = eng.sendNotifications(ctx, pending)

	stats.BannersBackfilled = eng.backfillBanners(ctx, games)

	eng.log.Info("refresh pass complete",
		"games", stats.GamesProcessed,
		"deals_written", stats.DealsWritten,
		"notifications", stats.NotificationsSent,
		"banners", stats.BannersBackfilled,
	)
	return stats, nil
}

// qualifies reports whether a listing clears the notification bar: the
// discount is at least 10% and the sale price is at or under the game's
// threshold (a zero threshold accepts any discount).
func qualifies(game *domain.Game, l itad.DealListing) bool {
	if l.Cut < minCutPercent {
		return false
	}
	return game.PriceThreshold <= 0 || l.Price.Amount <= game.PriceThreshold
}

// bestQualifyingListing filters to qualifying offers first, then picks the
// cheapest among them. The order matters: the cheapest offer overall may be
// a shallow discount, and a pricier offer that clears the bar must still win.
func bestQualifyingListing(
	game *domain.Game,
	listings []itad.DealListing,
) (itad.DealListing, bool) {
	var qualifying []itad.DealListing
	for _, l := range listings {
		if qualifies(game, l) {
			qualifying = append(qualifying, l)
		}
	}
	return itad.BestListing(qualifying)
}

// evaluateDeal decides whether a qualifying offer warrants a notification:
// only when the game has no stored history or the offer beats the previous
// best price strictly.
func (eng *Engine) evaluateDeal(
	game *domain.Game,
	best itad.DealListing,
	prevBest map[int64]float64,
) (notify.DealPayload, bool) {
	if !qualifies(game, best) {
		return notify.DealPayload{}, false
	}

	payload := notify.DealPayload{
		GameTitle:     game.Title,
		BoxartURL:     game.BoxartURL,
		SalePrice:     best.Price.Amount,
		RegularPrice:  best.Regular.Amount,
		CutPercent:    best.Cut,
		ShopName:      best.Shop.Name,
		DealURL:       best.URL,
		HistoricalLow: best.Flag == domain.FlagHistoricalLow || best.Flag == domain.FlagNewLow,
	}

	prev, hasHistory := prevBest[game.ID]
	if !hasHistory {
		return payload, true
	}
	if best.Price.Amount < prev {
		payload.PreviousBest = &prev
		return payload, true
	}
	return notify.DealPayload{}, false
}

// minCutPercent is the smallest discount worth announcing.
const minCutPercent = 10

// batchThreshold switches from individual messages to one batched message.
const batchThreshold = 5

func (eng *Engine) sendNotifications(ctx context.Context, pending []notify.DealPayload) int {
	if len(pending) == 0 {
		return 0
	}

	if len(pending) >= batchThreshold {
		if err := eng.notifier.SendBatch(ctx, pending); err != nil {
			eng.log.Error("batch notification failed", "count", len(pending), "error", err)
			metrics.NotificationFailuresTotal.Inc()
			return 0
		}
		metrics.NotificationsSentTotal.Add(float64(len(pending)))
		return len(pending)
	}

	sent := 0
	for _, p := range pending {
		if err := eng.notifier.SendDeal(ctx, p); err != nil {
			eng.log.Error("notification failed", "game", p.GameTitle, "error", err)
			metrics.NotificationFailuresTotal.Inc()
			continue
		}
		metrics.NotificationsSentTotal.Inc()
		sent++
	}
	return sent
}

// backfillBanners fetches banner artwork for games missing it. Failures are
// logged and skipped: artwork is cosmetic and never fails a refresh.
func (eng *Engine) backfillBanners(ctx context.Context, games []domain.Game) int {
	filled := 0
	for i := range games {
		g := &games[i]
		if g.BannerURL != "" {
			continue
		}

		info, err := eng.pricing.GameInfo(ctx, *g.ExternalID)
		if err != nil {
			eng.log.Warn("banner lookup failed", "game", g.Title, "error", err)
			continue
		}

		banner := itad.BannerURL(info.Assets)
		if banner == "" {
			continue
		}

		if err := eng.store.UpdateGameBanner(ctx, g.ID, banner); err != nil {
			eng.log.Warn("banner update failed", "game", g.Title, "error", err)
			continue
		}
		metrics.BannerBackfillsTotal.Inc()
		filled++
	}
	return filled
}

func (eng *Engine) completeJobRun(
	ctx context.Context,
	jobRunID string,
	stats *domain.RefreshStats,
	refreshErr error,
) {
	if jobRunID == "" {
		return
	}

	status := domain.JobStatusSucceeded
	errText := ""
	if refreshErr != nil {
		status = domain.JobStatusFailed
		errText = refreshErr.Error()
	}

	rows := 0
	if stats != nil {
		rows = stats.DealsWritten
	}

	if err := eng.store.CompleteJobRun(ctx, jobRunID, status, errText, rows); err != nil {
		eng.log.Error("completing job run failed", "id", jobRunID, "error", err)
	}
}
