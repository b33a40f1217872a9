package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dealwarden/dealwarden/internal/api/middleware"
	"github.com/dealwarden/dealwarden/internal/auth"
	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

const testCronSecret = "cron-secret-for-tests"

// authStore backs the auth middleware in handler tests. Only the lookup
// methods the middleware touches are implemented; anything else panics.
type authStore struct {
	store.Store
	users    map[string]*domain.User
	redeemed map[string]bool
}

func (s *authStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (s *authStore) HasRedeemedInvite(_ context.Context, userID string) (bool, error) {
	return s.redeemed[userID], nil
}

// authFixture wires an Authenticator with three accounts: an admin, an
// approved user (redeemed an invite), and a plain user (no invite yet).
// The header fields are ready-to-pass humatest header arguments.
type authFixture struct {
	authn *middleware.Authenticator

	admin    domain.User
	approved domain.User
	plain    domain.User

	adminHeader    string
	approvedHeader string
	plainHeader    string
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	admin := domain.User{ID: "user-admin", Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin}
	approved := domain.User{ID: "user-approved", Email: "approved@example.com", Name: "Approved", Role: domain.RoleUser}
	plain := domain.User{ID: "user-plain", Email: "plain@example.com", Name: "Plain", Role: domain.RoleUser}

	s := &authStore{
		users: map[string]*domain.User{
			admin.ID:    &admin,
			approved.ID: &approved,
			plain.ID:    &plain,
		},
		redeemed: map[string]bool{approved.ID: true},
	}

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	fx := &authFixture{
		authn:    middleware.NewAuthenticator(tokens, s, testCronSecret),
		admin:    admin,
		approved: approved,
		plain:    plain,
	}
	fx.adminHeader = bearerHeader(t, tokens, &admin)
	fx.approvedHeader = bearerHeader(t, tokens, &approved)
	fx.plainHeader = bearerHeader(t, tokens, &plain)
	return fx
}

func bearerHeader(t *testing.T, tokens *auth.TokenIssuer, u *domain.User) string {
	t.Helper()
	token, err := tokens.Issue(u)
	require.NoError(t, err)
	return "Authorization: Bearer " + token
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), v))
}
