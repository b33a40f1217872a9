// Package notify defines the notification interface and implementations
// for deal alert delivery.
package notify

import (
	"context"
)

// DealPayload contains the data needed to announce a price drop.
type DealPayload struct {
	GameTitle string
	BoxartURL string

	SalePrice    float64
	RegularPrice float64
	CutPercent   int

	ShopName string
	DealURL  string

	// PreviousBest is the best stored price before this pass, nil when the
	// game had no prior deal history.
	PreviousBest *float64

	HistoricalLow bool
}

// Notifier defines the interface for sending deal notifications.
type Notifier interface {
	SendDeal(ctx context.Context, deal DealPayload) error
	SendBatch(ctx context.Context, deals []DealPayload) error
}
