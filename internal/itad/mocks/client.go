// Package mocks provides testify mocks for the itad package interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dealwarden/dealwarden/internal/itad"
)

// Client is a mock implementation of itad.Client.
type Client struct {
	mock.Mock
}

var _ itad.Client = (*Client)(nil)

func (m *Client) Search(
	ctx context.Context,
	title string,
	limit int,
) ([]itad.SearchResult, error) {
	args := m.Called(ctx, title, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]itad.SearchResult), args.Error(1)
}

func (m *Client) GameInfo(ctx context.Context, id string) (*itad.GameInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*itad.GameInfo), args.Error(1)
}

func (m *Client) Prices(ctx context.Context, ids []string) ([]itad.GamePrices, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]itad.GamePrices), args.Error(1)
}

func (m *Client) Overview(ctx context.Context, ids []string) (*itad.Overview, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*itad.Overview), args.Error(1)
}

func (m *Client) History(
	ctx context.Context,
	id string,
	since time.Time,
) ([]itad.HistoryEntry, error) {
	args := m.Called(ctx, id, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]itad.HistoryEntry), args.Error(1)
}
