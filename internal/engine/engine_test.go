package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dealwarden/dealwarden/internal/itad"
	itadmocks "github.com/dealwarden/dealwarden/internal/itad/mocks"
	"github.com/dealwarden/dealwarden/internal/notify"
	notifymocks "github.com/dealwarden/dealwarden/internal/notify/mocks"
	"github.com/dealwarden/dealwarden/internal/store"
	storemocks "github.com/dealwarden/dealwarden/internal/store/mocks"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func trackedGame(id int64, externalID string, threshold float64) domain.Game {
	ext := externalID
	return domain.Game{
		ID:             id,
		Title:          "Game " + externalID,
		ExternalID:     &ext,
		BannerURL:      "https://img/banner.jpg",
		PriceThreshold: threshold,
	}
}

func listing(shop string, price float64, cut int) itad.DealListing {
	return itad.DealListing{
		Shop:    itad.Shop{ID: 61, Name: shop},
		Price:   itad.Price{Amount: price, Currency: "USD"},
		Regular: itad.Price{Amount: price * 2, Currency: "USD"},
		Cut:     cut,
		URL:     "https://shop/deal",
	}
}

type engineFixture struct {
	store    *storemocks.Store
	pricing  *itadmocks.Client
	notifier *notifymocks.Notifier
	engine   *Engine
}

func newFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		store:    &storemocks.Store{},
		pricing:  &itadmocks.Client{},
		notifier: &notifymocks.Notifier{},
	}
	f.engine = NewEngine(f.store, f.pricing, f.notifier)
	return f
}

func (f *engineFixture) expectJobRun() {
	f.store.On("InsertJobRun", mock.Anything, "price_refresh").Return("job-1", nil)
	f.store.On("CompleteJobRun",
		mock.Anything, "job-1", mock.Anything, mock.Anything, mock.Anything,
	).Return(nil)
}

func TestRefresh_NotifiesFirstDealForGame(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectJobRun()

	games := []domain.Game{trackedGame(1, "ext-1", 0)}
	f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
	f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
	f.pricing.On("Prices", mock.Anything, []string{"ext-1"}).Return([]itad.GamePrices{
		{ID: "ext-1", Deals: []itad.DealListing{listing("Steam", 9.99, 50)}},
	}, nil)
	f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(1, nil)
	f.notifier.On("SendDeal", mock.Anything, mock.MatchedBy(func(p notify.DealPayload) bool {
		return p.GameTitle == "Game ext-1" && p.PreviousBest == nil
	})).Return(nil)

	stats, err := f.engine.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.GamesProcessed)
	assert.Equal(t, 1, stats.DealsWritten)
	assert.Equal(t, 1, stats.NotificationsSent)
	f.notifier.AssertExpectations(t)
}

func TestRefresh_QualificationRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		threshold  float64
		deal       itad.DealListing
		wantNotify bool
	}{
		{
			name:       "zero threshold accepts any price with enough cut",
			threshold:  0,
			deal:       listing("Steam", 49.99, 25),
			wantNotify: true,
		},
		{
			name:       "cut below minimum never qualifies",
			threshold:  0,
			deal:       listing("Steam", 0.99, 9),
			wantNotify: false,
		},
		{
			name:       "price above threshold rejected",
			threshold:  10.00,
			deal:       listing("Steam", 10.01, 50),
			wantNotify: false,
		},
		{
			name:       "price at threshold accepted",
			threshold:  10.00,
			deal:       listing("Steam", 10.00, 50),
			wantNotify: true,
		},
		{
			name:       "cut exactly at minimum accepted",
			threshold:  0,
			deal:       listing("Steam", 5.00, 10),
			wantNotify: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.expectJobRun()

			games := []domain.Game{trackedGame(1, "ext-1", tt.threshold)}
			f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
			f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
			f.pricing.On("Prices", mock.Anything, mock.Anything).Return([]itad.GamePrices{
				{ID: "ext-1", Deals: []itad.DealListing{tt.deal}},
			}, nil)
			f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(1, nil)
			if tt.wantNotify {
				f.notifier.On("SendDeal", mock.Anything, mock.Anything).Return(nil)
			}

			stats, err := f.engine.Refresh(context.Background())
			require.NoError(t, err)

			if tt.wantNotify {
				assert.Equal(t, 1, stats.NotificationsSent)
			} else {
				assert.Zero(t, stats.NotificationsSent)
				f.notifier.AssertNotCalled(t, "SendDeal", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestRefresh_LowestListingWins(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectJobRun()

	games := []domain.Game{trackedGame(1, "ext-1", 0)}
	f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
	f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
	f.pricing.On("Prices", mock.Anything, mock.Anything).Return([]itad.GamePrices{
		{ID: "ext-1", Deals: []itad.DealListing{
			listing("GOG", 12.49, 50),
			listing("Steam", 9.99, 60),
			listing("Fanatical", 9.99, 60),
		}},
	}, nil)
	f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(3, nil)

	// Ties go to the first-seen listing.
	f.notifier.On("SendDeal", mock.Anything, mock.MatchedBy(func(p notify.DealPayload) bool {
		return p.ShopName == "Steam" && p.SalePrice == 9.99
	})).Return(nil)

	_, err := f.engine.Refresh(context.Background())
	require.NoError(t, err)
	f.notifier.AssertExpectations(t)
}

func TestRefresh_CheapestNonQualifyingListingIsSkipped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectJobRun()

	games := []domain.Game{trackedGame(1, "ext-1", 0)}
	f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
	f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
	// The cheapest listing carries only a shallow 5% cut. The pricier one
	// clears the minimum cut and must be the one announced.
	f.pricing.On("Prices", mock.Anything, mock.Anything).Return([]itad.GamePrices{
		{ID: "ext-1", Deals: []itad.DealListing{
			listing("Steam", 5.00, 5),
			listing("GOG", 10.00, 50),
		}},
	}, nil)
	f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(2, nil)
	f.notifier.On("SendDeal", mock.Anything, mock.MatchedBy(func(p notify.DealPayload) bool {
		return p.ShopName == "GOG" && p.SalePrice == 10.00
	})).Return(nil)

	stats, err := f.engine.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.NotificationsSent)
	f.notifier.AssertExpectations(t)
}

func TestRefresh_SelectionIgnoresListingsOverThreshold(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectJobRun()

	games := []domain.Game{trackedGame(1, "ext-1", 8.00)}
	f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
	f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
	// One listing fails the cut, one is over the threshold. The cheapest
	// among the remaining qualifying listings wins.
	f.pricing.On("Prices", mock.Anything, mock.Anything).Return([]itad.GamePrices{
		{ID: "ext-1", Deals: []itad.DealListing{
			listing("Steam", 6.00, 5),
			listing("GOG", 9.00, 80),
			listing("Fanatical", 7.50, 50),
		}},
	}, nil)
	f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(3, nil)
	f.notifier.On("SendDeal", mock.Anything, mock.MatchedBy(func(p notify.DealPayload) bool {
		return p.ShopName == "Fanatical" && p.SalePrice == 7.50
	})).Return(nil)

	stats, err := f.engine.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.NotificationsSent)
	f.notifier.AssertExpectations(t)
}

func TestRefresh_NotifiesOnlyOnStrictImprovement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prevBest   float64
		salePrice  float64
		wantNotify bool
	}{
		{"strictly lower", 9.99, 7.49, true},
		{"equal price is silent", 9.99, 9.99, false},
		{"higher price is silent", 9.99, 12.49, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.expectJobRun()

			games := []domain.Game{trackedGame(1, "ext-1", 0)}
			f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
			f.store.On("BestPriceByGame", mock.Anything).
				Return(map[int64]float64{1: tt.prevBest}, nil)
			f.pricing.On("Prices", mock.Anything, mock.Anything).Return([]itad.GamePrices{
				{ID: "ext-1", Deals: []itad.DealListing{listing("Steam", tt.salePrice, 50)}},
			}, nil)
			f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(1, nil)
			if tt.wantNotify {
				f.notifier.On("SendDeal", mock.Anything,
					mock.MatchedBy(func(p notify.DealPayload) bool {
						return p.PreviousBest != nil && *p.PreviousBest == tt.prevBest
					}),
				).Return(nil)
			}

			stats, err := f.engine.Refresh(context.Background())
			require.NoError(t, err)

			if tt.wantNotify {
				assert.Equal(t, 1, stats.NotificationsSent)
			} else {
				// The deal is still appended to history even when silent.
				assert.Equal(t, 1, stats.DealsWritten)
				f.notifier.AssertNotCalled(t, "SendDeal", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestRefresh_AppendsEveryListing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectJobRun()

	games := []domain.Game{
		trackedGame(1, "ext-1", 0),
		trackedGame(2, "ext-2", 0),
	}
	f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
	f.store.On("BestPriceByGame", mock.Anything).
		Return(map[int64]float64{1: 5.00, 2: 5.00}, nil)
	f.pricing.On("Prices", mock.Anything, mock.Anything).Return([]itad.GamePrices{
		{ID: "ext-1", Deals: []itad.DealListing{
			listing("Steam", 9.99, 50),
			listing("GOG", 10.99, 45),
		}},
		{ID: "ext-2", Deals: []itad.DealListing{listing("Steam", 19.99, 33)}},
	}, nil)

	var inserted []domain.Deal
	f.store.On("InsertDeals", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]domain.Deal)
		}).
		Return(3, nil)

	stats, err := f.engine.Refresh(context.Background())
	require.NoError(t, err)

	// Every observed listing lands in history, not just the best one.
	require.Len(t, inserted, 3)
	for _, d := range inserted {
		assert.Equal(t, domain.SourcePoll, d.Source)
		assert.False(t, d.ReceivedAt.IsZero())
	}
	assert.Equal(t, 3, stats.DealsWritten)
	assert.Equal(t, 2, stats.GamesProcessed)
}

func TestRefresh_RejectsConcurrentPass(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectJobRun()

	games := []domain.Game{trackedGame(1, "ext-1", 0)}
	f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
	f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	f.pricing.On("Prices", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]itad.GamePrices{}, nil)
	f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(0, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := f.engine.Refresh(context.Background())
		assert.NoError(t, err)
	}()

	<-started
	_, err := f.engine.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshInFlight)

	close(release)
	wg.Wait()
}

func TestRefresh_BatchesLargeNotificationSets(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectJobRun()

	games := make([]domain.Game, 0, 6)
	prices := make([]itad.GamePrices, 0, 6)
	for i := range 6 {
		ext := string(rune('a' + i))
		games = append(games, trackedGame(int64(i+1), ext, 0))
		prices = append(prices, itad.GamePrices{
			ID:    ext,
			Deals: []itad.DealListing{listing("Steam", 9.99, 50)},
		})
	}

	f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
	f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
	f.pricing.On("Prices", mock.Anything, mock.Anything).Return(prices, nil)
	f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(6, nil)
	f.notifier.On("SendBatch", mock.Anything, mock.MatchedBy(func(p []notify.DealPayload) bool {
		return len(p) == 6
	})).Return(nil)

	stats, err := f.engine.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, stats.NotificationsSent)
	f.notifier.AssertNotCalled(t, "SendDeal", mock.Anything, mock.Anything)
}

func TestRefresh_NotificationFailureDoesNotFailPass(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectJobRun()

	games := []domain.Game{trackedGame(1, "ext-1", 0)}
	f.store.On("ListGamesWithExternalID", mock.Anything).Return(games, nil)
	f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
	f.pricing.On("Prices", mock.Anything, mock.Anything).Return([]itad.GamePrices{
		{ID: "ext-1", Deals: []itad.DealListing{listing("Steam", 9.99, 50)}},
	}, nil)
	f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(1, nil)
	f.notifier.On("SendDeal", mock.Anything, mock.Anything).
		Return(errors.New("webhook down"))

	stats, err := f.engine.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.DealsWritten)
	assert.Zero(t, stats.NotificationsSent)
}

func TestRefresh_JobRunBookkeepingIsSoft(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.store.On("InsertJobRun", mock.Anything, "price_refresh").
		Return("", errors.New("db hiccup"))
	f.store.On("ListGamesWithExternalID", mock.Anything).
		Return([]domain.Game{}, nil)

	stats, err := f.engine.Refresh(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.GamesProcessed)
	f.store.AssertNotCalled(t, "CompleteJobRun",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefresh_PricingFailureRecordsFailedRun(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.store.On("InsertJobRun", mock.Anything, "price_refresh").Return("job-1", nil)
	f.store.On("ListGamesWithExternalID", mock.Anything).
		Return([]domain.Game{trackedGame(1, "ext-1", 0)}, nil)
	f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
	f.pricing.On("Prices", mock.Anything, mock.Anything).
		Return(nil, errors.New("api unreachable"))
	f.store.On("CompleteJobRun",
		mock.Anything, "job-1", domain.JobStatusFailed, mock.Anything, 0,
	).Return(nil)

	_, err := f.engine.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching prices")
	f.store.AssertExpectations(t)
}

func TestRefresh_BannerBackfillIsBestEffort(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.expectJobRun()

	withBanner := trackedGame(1, "ext-1", 0)
	noBanner := trackedGame(2, "ext-2", 0)
	noBanner.BannerURL = ""
	broken := trackedGame(3, "ext-3", 0)
	broken.BannerURL = ""

	f.store.On("ListGamesWithExternalID", mock.Anything).
		Return([]domain.Game{withBanner, noBanner, broken}, nil)
	f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
	f.pricing.On("Prices", mock.Anything, mock.Anything).Return([]itad.GamePrices{}, nil)
	f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(0, nil)

	f.pricing.On("GameInfo", mock.Anything, "ext-2").Return(&itad.GameInfo{
		Assets: itad.Assets{Banner600: "https://img/new-banner.jpg"},
	}, nil)
	f.pricing.On("GameInfo", mock.Anything, "ext-3").
		Return(nil, errors.New("lookup failed"))
	f.store.On("UpdateGameBanner", mock.Anything, int64(2), "https://img/new-banner.jpg").
		Return(nil)

	stats, err := f.engine.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.BannersBackfilled)
	f.pricing.AssertNotCalled(t, "GameInfo", mock.Anything, "ext-1")
}

func TestIngestDeal(t *testing.T) {
	t.Parallel()

	t.Run("records and notifies", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		game := trackedGame(1, "ext-1", 0)
		f.store.On("GetGameByExternalID", mock.Anything, "ext-1").Return(&game, nil)
		f.store.On("BestPriceByGame", mock.Anything).
			Return(map[int64]float64{1: 19.99}, nil)

		var inserted []domain.Deal
		f.store.On("InsertDeals", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				inserted = args.Get(1).([]domain.Deal)
			}).
			Return(1, nil)
		f.notifier.On("SendDeal", mock.Anything, mock.Anything).Return(nil)

		deal, err := f.engine.IngestDeal(
			context.Background(), "ext-1", listing("Steam", 9.99, 50))
		require.NoError(t, err)

		assert.Equal(t, domain.SourceWebhook, deal.Source)
		require.Len(t, inserted, 1)
		assert.Equal(t, domain.SourceWebhook, inserted[0].Source)
		f.notifier.AssertExpectations(t)
	})

	t.Run("unknown game", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.store.On("GetGameByExternalID", mock.Anything, "nope").
			Return(nil, store.ErrNotFound)

		_, err := f.engine.IngestDeal(
			context.Background(), "nope", listing("Steam", 9.99, 50))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("notification failure is soft", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		game := trackedGame(1, "ext-1", 0)
		f.store.On("GetGameByExternalID", mock.Anything, "ext-1").Return(&game, nil)
		f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
		f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(1, nil)
		f.notifier.On("SendDeal", mock.Anything, mock.Anything).
			Return(errors.New("discord down"))

		deal, err := f.engine.IngestDeal(
			context.Background(), "ext-1", listing("Steam", 9.99, 50))
		require.NoError(t, err)
		assert.NotNil(t, deal)
	})

	t.Run("non-qualifying deal stays silent", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		game := trackedGame(1, "ext-1", 0)
		f.store.On("GetGameByExternalID", mock.Anything, "ext-1").Return(&game, nil)
		f.store.On("BestPriceByGame", mock.Anything).Return(map[int64]float64{}, nil)
		f.store.On("InsertDeals", mock.Anything, mock.Anything).Return(1, nil)

		_, err := f.engine.IngestDeal(
			context.Background(), "ext-1", listing("Steam", 9.99, 5))
		require.NoError(t, err)
		f.notifier.AssertNotCalled(t, "SendDeal", mock.Anything, mock.Anything)
	})
}

func TestScheduler_RegistersRefreshEntry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	s, err := NewScheduler(f.engine, time.Hour, testLogger())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)
}
