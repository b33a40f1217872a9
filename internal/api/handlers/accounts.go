package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/dealwarden/dealwarden/internal/api/middleware"
	"github.com/dealwarden/dealwarden/internal/auth"
	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// AccountsProvider defines the store methods required by the accounts handler.
type AccountsProvider interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
	HasRedeemedInvite(ctx context.Context, userID string) (bool, error)
}

// AccountsHandler handles registration, login, and session introspection.
type AccountsHandler struct {
	store  AccountsProvider
	tokens *auth.TokenIssuer
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(s AccountsProvider, tokens *auth.TokenIssuer) *AccountsHandler {
	return &AccountsHandler{store: s, tokens: tokens}
}

// RegisterInput is the request body for creating an account.
type RegisterInput struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"Account email address"`
		Name     string `json:"name" minLength:"1" maxLength:"100" doc:"Display name"`
		Password string `json:"password" minLength:"8" maxLength:"128" doc:"Account password"`
	}
}

// SessionOutput is the response body for register and login.
type SessionOutput struct {
	Body struct {
		Token string      `json:"token" doc:"Bearer token for subsequent requests"`
		User  domain.User `json:"user"`
	}
}

// Register creates a new account. The very first account becomes the admin;
// everyone after that starts as a regular user who needs an invite code.
func (h *AccountsHandler) Register(
	ctx context.Context,
	input *RegisterInput,
) (*SessionOutput, error) {
	hash, err := auth.HashPassword(input.Body.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("creating account failed")
	}

	count, err := h.store.CountUsers(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("creating account failed: " + err.Error())
	}
	role := domain.RoleUser
	if count == 0 {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Body.Email,
		Name:         input.Body.Name,
		Role:         role,
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, huma.Error409Conflict("email already registered")
		}
		return nil, huma.Error500InternalServerError("creating account failed: " + err.Error())
	}

	return h.session(user)
}

// LoginInput is the request body for logging in.
type LoginInput struct {
	Body struct {
		Email    string `json:"email" format:"email"`
		Password string `json:"password" minLength:"1"`
	}
}

// Login exchanges credentials for a session token.
func (h *AccountsHandler) Login(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
	user, err := h.store.GetUserByEmail(ctx, input.Body.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error401Unauthorized("invalid email or password")
		}
		return nil, huma.Error500InternalServerError("login failed: " + err.Error())
	}

	if err := auth.CheckPassword(user.PasswordHash, input.Body.Password); err != nil {
		return nil, huma.Error401Unauthorized("invalid email or password")
	}

	return h.session(user)
}

// MeOutput is the response body for session introspection.
type MeOutput struct {
	Body struct {
		User     domain.User `json:"user"`
		Approved bool        `json:"approved" doc:"Whether the user may manage tracked games"`
	}
}

// Me returns the authenticated user and whether they are approved to manage
// tracked games.
func (h *AccountsHandler) Me(ctx context.Context, _ *struct{}) (*MeOutput, error) {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	approved := user.IsAdmin()
	if !approved {
		redeemed, err := h.store.HasRedeemedInvite(ctx, user.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("checking account status")
		}
		approved = redeemed
	}

	resp := &MeOutput{}
	resp.Body.User = *user
	resp.Body.Approved = approved
	return resp, nil
}

func (h *AccountsHandler) session(user *domain.User) (*SessionOutput, error) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		return nil, huma.Error500InternalServerError("issuing session token failed")
	}

	resp := &SessionOutput{}
	resp.Body.Token = token
	resp.Body.User = *user
	return resp, nil
}

// RegisterAccountRoutes registers authentication endpoints with the Huma API.
func RegisterAccountRoutes(api huma.API, h *AccountsHandler, authn *middleware.Authenticator) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Create an account",
		Description: "Creates a new account. The first account registered becomes the admin.",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusConflict, http.StatusInternalServerError},
	}, h.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusUnauthorized, http.StatusInternalServerError},
	}, h.Login)

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Get the current session",
		Tags:        []string{"auth"},
		Middlewares: huma.Middlewares{authn.RequireUser(api)},
		Errors:      []int{http.StatusUnauthorized},
	}, h.Me)
}
