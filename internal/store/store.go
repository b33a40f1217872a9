// Package store defines the datastore abstraction for dealwarden.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running database.
package store

import (
	"context"
	"errors"

	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInviteRedeemed is returned when an invite code was already
	// redeemed by a different user.
	ErrInviteRedeemed = errors.New("invite code already redeemed")

	// ErrEmailTaken is returned when registering with an email that
	// already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrDuplicateGame is returned when adding a game whose external ID
	// is already tracked.
	ErrDuplicateGame = errors.New("game already tracked")
)

// GameQuery defines optional filters for game listing queries.
type GameQuery struct {
	Search  string // case-insensitive title match
	Limit   int    // default 50
	Offset  int
	OrderBy string // "title", "created_at"
}

// Store defines all data access operations for dealwarden.
type Store interface {
	// Games
	CreateGame(ctx context.Context, g *domain.Game) error
	GetGame(ctx context.Context, id int64) (*domain.Game, error)
	GetGameByExternalID(ctx context.Context, externalID string) (*domain.Game, error)
	ListGames(ctx context.Context, opts *GameQuery) ([]domain.Game, int, error)
	ListGamesWithExternalID(ctx context.Context) ([]domain.Game, error)
	UpdateGame(ctx context.Context, g *domain.Game) error
	UpdateGameThreshold(ctx context.Context, id int64, threshold float64) error
	UpdateGameBanner(ctx context.Context, id int64, bannerURL string) error
	DeleteGame(ctx context.Context, id int64) error

	// Deals
	InsertDeals(ctx context.Context, deals []domain.Deal) (int, error)
	ListDealsByGame(ctx context.Context, gameID int64, limit int) ([]domain.Deal, error)
	ListLatestDeals(ctx context.Context, limit int) ([]domain.Deal, error)
	BestPriceByGame(ctx context.Context) (map[int64]float64, error)
	BestDeals(ctx context.Context) ([]domain.GameDeal, error)

	// Users
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUserRole(ctx context.Context, id string, role domain.Role) error
	DeleteUser(ctx context.Context, id string) error

	// Invite codes
	CreateInvites(ctx context.Context, createdBy string, codes []string) ([]domain.InviteCode, error)
	ListInvites(ctx context.Context) ([]domain.InviteCode, error)
	GetInviteByCode(ctx context.Context, code string) (*domain.InviteCode, error)
	RedeemInvite(ctx context.Context, code string, userID string) (*domain.InviteCode, error)
	HasRedeemedInvite(ctx context.Context, userID string) (bool, error)
	DeleteInvite(ctx context.Context, id int64) error

	// Scheduler
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
