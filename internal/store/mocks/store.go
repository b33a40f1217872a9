// Package mocks provides testify mocks for the store package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// Store is a mock implementation of store.Store.
type Store struct {
	mock.Mock
}

var _ store.Store = (*Store)(nil)

func (m *Store) CreateGame(ctx context.Context, g *domain.Game) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *Store) GetGame(ctx context.Context, id int64) (*domain.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}

func (m *Store) GetGameByExternalID(ctx context.Context, externalID string) (*domain.Game, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Game), args.Error(1)
}

func (m *Store) ListGames(ctx context.Context, opts *store.GameQuery) ([]domain.Game, int, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Game), args.Int(1), args.Error(2)
}

func (m *Store) ListGamesWithExternalID(ctx context.Context) ([]domain.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Game), args.Error(1)
}

func (m *Store) UpdateGame(ctx context.Context, g *domain.Game) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *Store) UpdateGameThreshold(ctx context.Context, id int64, threshold float64) error {
	args := m.Called(ctx, id, threshold)
	return args.Error(0)
}

func (m *Store) UpdateGameBanner(ctx context.Context, id int64, bannerURL string) error {
	args := m.Called(ctx, id, bannerURL)
	return args.Error(0)
}

func (m *Store) DeleteGame(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Store) InsertDeals(ctx context.Context, deals []domain.Deal) (int, error) {
	args := m.Called(ctx, deals)
	return args.Int(0), args.Error(1)
}

func (m *Store) ListDealsByGame(ctx context.Context, gameID int64, limit int) ([]domain.Deal, error) {
	args := m.Called(ctx, gameID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *Store) ListLatestDeals(ctx context.Context, limit int) ([]domain.Deal, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Deal), args.Error(1)
}

func (m *Store) BestPriceByGame(ctx context.Context) (map[int64]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]float64), args.Error(1)
}

func (m *Store) BestDeals(ctx context.Context) ([]domain.GameDeal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GameDeal), args.Error(1)
}

func (m *Store) CreateUser(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *Store) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *Store) UpdateUserRole(ctx context.Context, id string, role domain.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *Store) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Store) CreateInvites(
	ctx context.Context,
	createdBy string,
	codes []string,
) ([]domain.InviteCode, error) {
	args := m.Called(ctx, createdBy, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InviteCode), args.Error(1)
}

func (m *Store) ListInvites(ctx context.Context) ([]domain.InviteCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InviteCode), args.Error(1)
}

func (m *Store) GetInviteByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InviteCode), args.Error(1)
}

func (m *Store) RedeemInvite(
	ctx context.Context,
	code string,
	userID string,
) (*domain.InviteCode, error) {
	args := m.Called(ctx, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InviteCode), args.Error(1)
}

func (m *Store) HasRedeemedInvite(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *Store) DeleteInvite(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Store) InsertJobRun(ctx context.Context, jobName string) (string, error) {
	args := m.Called(ctx, jobName)
	return args.String(0), args.Error(1)
}

func (m *Store) CompleteJobRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	rowsAffected int,
) error {
	args := m.Called(ctx, id, status, errText, rowsAffected)
	return args.Error(0)
}

func (m *Store) ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error) {
	args := m.Called(ctx, jobName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobRun), args.Error(1)
}

func (m *Store) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Store) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
