package itad

import (
	"strings"
	"time"

	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// DealFromListing converts an API offer into a deal record for the given
// tracked game. ReceivedAt is stamped by the caller's clock so batches share
// one observation time.
func DealFromListing(
	gameID int64,
	listing DealListing,
	source domain.DealSource,
	receivedAt time.Time,
) domain.Deal {
	shopID := listing.Shop.ID
	return domain.Deal{
		GameID:       gameID,
		SalePrice:    listing.Price.Amount,
		RegularPrice: listing.Regular.Amount,
		CutPercent:   listing.Cut,
		ShopName:     listing.Shop.Name,
		ShopID:       &shopID,
		URL:          listing.URL,
		DRM:          joinNames(listing.DRM),
		Platforms:    joinNames(listing.Platforms),
		Flag:         listing.Flag,
		ExpiresAt:    listing.Expiry,
		Source:       source,
		ReceivedAt:   receivedAt,
	}
}

// BestListing returns the lowest-priced offer from the set, preferring the
// earlier entry on ties. Returns false when the slice is empty.
func BestListing(listings []DealListing) (DealListing, bool) {
	if len(listings) == 0 {
		return DealListing{}, false
	}
	best := listings[0]
	for _, l := range listings[1:] {
		if l.Price.Amount < best.Price.Amount {
			best = l
		}
	}
	return best, true
}

// BestReviewScore picks the headline review score for a game, preferring
// Metacritic over other sources.
func BestReviewScore(reviews []Review) *int {
	var fallback *int
	for i := range reviews {
		r := &reviews[i]
		if strings.EqualFold(r.Source, "metacritic") {
			return &r.Score
		}
		if fallback == nil {
			fallback = &r.Score
		}
	}
	return fallback
}

// BannerURL picks the widest available banner asset.
func BannerURL(a Assets) string {
	for _, u := range []string{a.Banner600, a.Banner400, a.Banner300, a.Banner145} {
		if u != "" {
			return u
		}
	}
	return ""
}

func joinNames(refs []NamedRef) string {
	if len(refs) == 0 {
		return ""
	}
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}
