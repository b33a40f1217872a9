package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealwarden/dealwarden/internal/api/handlers"
	"github.com/dealwarden/dealwarden/internal/auth"
	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// mockAccountsProvider is a test double for AccountsProvider.
type mockAccountsProvider struct {
	users     map[string]*domain.User
	redeemed  map[string]bool
	userCount int
	createErr error
	created   []*domain.User
}

func (m *mockAccountsProvider) CreateUser(_ context.Context, u *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, u)
	return nil
}

func (m *mockAccountsProvider) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *mockAccountsProvider) CountUsers(_ context.Context) (int, error) {
	return m.userCount, nil
}

func (m *mockAccountsProvider) HasRedeemedInvite(_ context.Context, userID string) (bool, error) {
	return m.redeemed[userID], nil
}

func newAccountsAPI(t *testing.T, provider *mockAccountsProvider) (humatest.TestAPI, *authFixture) {
	t.Helper()
	fx := newAuthFixture(t)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := handlers.NewAccountsHandler(provider, tokens)
	_, api := humatest.New(t)
	handlers.RegisterAccountRoutes(api, h, fx.authn)
	return api, fx
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	t.Parallel()

	provider := &mockAccountsProvider{userCount: 0}
	api, _ := newAccountsAPI(t, provider)

	resp := api.Post("/api/v1/auth/register", map[string]any{
		"email":    "first@example.com",
		"name":     "First",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"token"`)
	assert.Contains(t, resp.Body.String(), `"admin"`)

	require.Len(t, provider.created, 1)
	assert.Equal(t, domain.RoleAdmin, provider.created[0].Role)
	assert.NotEmpty(t, provider.created[0].PasswordHash)
}

func TestRegister_LaterUsersStartUnprivileged(t *testing.T) {
	t.Parallel()

	provider := &mockAccountsProvider{userCount: 3}
	api, _ := newAccountsAPI(t, provider)

	resp := api.Post("/api/v1/auth/register", map[string]any{
		"email":    "fourth@example.com",
		"name":     "Fourth",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	require.Len(t, provider.created, 1)
	assert.Equal(t, domain.RoleUser, provider.created[0].Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	provider := &mockAccountsProvider{userCount: 1, createErr: store.ErrEmailTaken}
	api, _ := newAccountsAPI(t, provider)

	resp := api.Post("/api/v1/auth/register", map[string]any{
		"email":    "taken@example.com",
		"name":     "Dup",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "email already registered")
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(t, err)
	provider := &mockAccountsProvider{users: map[string]*domain.User{
		"user@example.com": {
			ID: "user-1", Email: "user@example.com", Name: "User",
			Role: domain.RoleUser, PasswordHash: hash,
		},
	}}
	api, _ := newAccountsAPI(t, provider)

	resp := api.Post("/api/v1/auth/login", map[string]any{
		"email":    "user@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"token"`)
	assert.Contains(t, resp.Body.String(), "user@example.com")
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("correct horse battery")
	require.NoError(t, err)
	provider := &mockAccountsProvider{users: map[string]*domain.User{
		"user@example.com": {ID: "user-1", Email: "user@example.com", PasswordHash: hash},
	}}
	api, _ := newAccountsAPI(t, provider)

	resp := api.Post("/api/v1/auth/login", map[string]any{
		"email":    "user@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	t.Parallel()

	provider := &mockAccountsProvider{}
	api, _ := newAccountsAPI(t, provider)

	resp := api.Post("/api/v1/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	// Same message for unknown email and bad password.
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid email or password")
}

func TestMe_RequiresAuth(t *testing.T) {
	t.Parallel()

	api, _ := newAccountsAPI(t, &mockAccountsProvider{})

	resp := api.Get("/api/v1/auth/me")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "authentication required")
}

func TestMe_ReportsApproval(t *testing.T) {
	t.Parallel()

	fx := newAuthFixture(t)
	provider := &mockAccountsProvider{redeemed: map[string]bool{fx.approved.ID: true}}
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	h := handlers.NewAccountsHandler(provider, tokens)
	_, api := humatest.New(t)
	handlers.RegisterAccountRoutes(api, h, fx.authn)

	resp := api.Get("/api/v1/auth/me", fx.approvedHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"approved":true`)

	resp = api.Get("/api/v1/auth/me", fx.plainHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"approved":false`)
}

func TestMe_RejectsGarbageToken(t *testing.T) {
	t.Parallel()

	api, _ := newAccountsAPI(t, &mockAccountsProvider{})

	resp := api.Get("/api/v1/auth/me", "Authorization: Bearer not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid or expired session")
}
