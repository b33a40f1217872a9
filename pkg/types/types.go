// Package domain defines the core business types for dealwarden.
package domain

import (
	"time"
)

// Role represents a user's authorization level.
type Role string

// Role constants.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DealSource records how a deal reached the system.
type DealSource string

// Deal provenance constants.
const (
	SourcePoll    DealSource = "poll"
	SourceWebhook DealSource = "webhook"
)

// Deal flags as reported by the pricing service. "H" marks an all-time
// historical low, "N" a new low within the recent window.
const (
	FlagHistoricalLow = "H"
	FlagNewLow        = "N"
)

// Game is a tracked game a user wants price alerts for.
type Game struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`

	// ExternalID is the pricing-service identifier. Nullable for legacy
	// rows added before the external lookup existed; unique among
	// non-null values.
	ExternalID *string `json:"itad_id,omitempty"`

	Slug        string   `json:"slug,omitempty"`
	GameType    string   `json:"game_type,omitempty"`
	BoxartURL   string   `json:"boxart_url,omitempty"`
	BannerURL   string   `json:"banner_url,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ReviewScore *int     `json:"review_score,omitempty"`
	EarlyAccess bool     `json:"early_access"`

	// Historical low as reported by the pricing service at add time.
	HistoryLow      *float64 `json:"history_low,omitempty"`
	HistoryLowStore string   `json:"history_low_store,omitempty"`

	// PriceThreshold gates notifications: 0 means any discount
	// qualifies, otherwise the sale price must be at or below it.
	PriceThreshold float64 `json:"price_threshold"`

	AddedBy   *string   `json:"added_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Deal is a priced offer observed for a tracked game at a point in time.
type Deal struct {
	ID     int64 `json:"id"`
	GameID int64 `json:"game_id"`

	SalePrice    float64 `json:"sale_price"`
	RegularPrice float64 `json:"regular_price"`
	CutPercent   int     `json:"cut_percent"`

	ShopName string `json:"shop_name"`
	ShopID   *int   `json:"shop_id,omitempty"`
	URL      string `json:"deal_url,omitempty"`

	// DRM and Platforms are comma-joined display strings, e.g. "Steam"
	// or "Windows, Linux".
	DRM       string `json:"drm,omitempty"`
	Platforms string `json:"platforms,omitempty"`

	Flag      string     `json:"flag,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	Source     DealSource `json:"source"`
	ReceivedAt time.Time  `json:"received_at"`
}

// IsHistoricalLow reports whether the pricing service flagged this deal
// as a historical low.
func (d *Deal) IsHistoricalLow() bool {
	return d.Flag == FlagHistoricalLow || d.Flag == FlagNewLow
}

// GameDeal is the denormalized row behind the best-deals view: one game
// joined with its lowest-priced stored deal.
type GameDeal struct {
	GameID     int64     `json:"game_id"`
	Title      string    `json:"title"`
	BoxartURL  string    `json:"boxart_url,omitempty"`
	ExternalID *string   `json:"itad_id,omitempty"`
	SalePrice  float64   `json:"sale_price"`
	Regular    float64   `json:"regular_price"`
	CutPercent int       `json:"cut_percent"`
	ShopName   string    `json:"shop_name"`
	URL        string    `json:"deal_url,omitempty"`
	Flag       string    `json:"flag,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// InviteCode is a single-use access token. Once RedeemedBy is set it is
// never cleared; a code is deletable only while unredeemed.
type InviteCode struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	CreatedBy string `json:"created_by"`

	RedeemedBy *string    `json:"redeemed_by,omitempty"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`

	// Display names resolved by list queries, empty elsewhere.
	CreatedByName  string `json:"created_by_name,omitempty"`
	RedeemedByName string `json:"redeemed_by_name,omitempty"`
}

// User is a registered account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	PasswordHash string `json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// JobRun records one execution of a scheduled or manually triggered job.
type JobRun struct {
	ID           string     `json:"id"`
	JobName      string     `json:"job_name"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Status       string     `json:"status"`
	ErrorText    string     `json:"error_text,omitempty"`
	RowsAffected int        `json:"rows_affected"`
}

// Job run status values.
const (
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

// RefreshStats summarizes one refresh pass for logging and the admin API.
type RefreshStats struct {
	GamesProcessed    int `json:"games_processed"`
	DealsWritten      int `json:"deals_written"`
	NotificationsSent int `json:"notifications_sent"`
	BannersBackfilled int `json:"banners_backfilled"`
}

// Shop identifies a storefront on the pricing service.
type Shop struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// PricePoint is one observation in a shop's price history.
type PricePoint struct {
	Amount    float64 `json:"amount"`
	Timestamp int64   `json:"timestamp"`
}

// ShopHistory groups a game's price history entries by shop, sorted
// chronologically, for trend display.
type ShopHistory struct {
	Shop   Shop         `json:"shop"`
	Prices []PricePoint `json:"price"`
}
