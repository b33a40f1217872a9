// Package mocks provides testify mocks for the notify package interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dealwarden/dealwarden/internal/notify"
)

// Notifier is a mock implementation of notify.Notifier.
type Notifier struct {
	mock.Mock
}

var _ notify.Notifier = (*Notifier)(nil)

func (m *Notifier) SendDeal(ctx context.Context, deal notify.DealPayload) error {
	args := m.Called(ctx, deal)
	return args.Error(0)
}

func (m *Notifier) SendBatch(ctx context.Context, deals []notify.DealPayload) error {
	args := m.Called(ctx, deals)
	return args.Error(0)
}
