package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dealwarden/dealwarden/internal/api/middleware"
	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// UsersProvider defines the store methods required by the users handler.
type UsersProvider interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUserRole(ctx context.Context, id string, role domain.Role) error
	DeleteUser(ctx context.Context, id string) error
}

// UsersHandler handles admin user management.
type UsersHandler struct {
	store UsersProvider
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(s UsersProvider) *UsersHandler {
	return &UsersHandler{store: s}
}

// ListUsersOutput is the response body for listing accounts.
type ListUsersOutput struct {
	Body []domain.User
}

// ListUsers returns every registered account.
func (h *UsersHandler) ListUsers(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
	users, err := h.store.ListUsers(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing users failed: " + err.Error())
	}
	if users == nil {
		users = []domain.User{}
	}
	return &ListUsersOutput{Body: users}, nil
}

// UpdateUserRoleInput is the request for changing an account's role.
type UpdateUserRoleInput struct {
	ID   string `path:"id" doc:"User ID"`
	Body struct {
		Role domain.Role `json:"role" enum:"admin,user" doc:"New role for the account"`
	}
}

// UpdateUserRole changes an account's role. Admins cannot demote themselves,
// which keeps at least one admin reachable.
func (h *UsersHandler) UpdateUserRole(
	ctx context.Context,
	input *UpdateUserRoleInput,
) (*struct{}, error) {
	actor, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}
	if actor.ID == input.ID && input.Body.Role != domain.RoleAdmin {
		return nil, huma.Error422UnprocessableEntity("admins cannot demote their own account")
	}

	if err := h.store.UpdateUserRole(ctx, input.ID, input.Body.Role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("user not found")
		}
		return nil, huma.Error500InternalServerError("updating role failed: " + err.Error())
	}
	return nil, nil
}

// DeleteUserInput is the request path for deleting an account.
type DeleteUserInput struct {
	ID string `path:"id" doc:"User ID"`
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (h *UsersHandler) DeleteUser(ctx context.Context, input *DeleteUserInput) (*struct{}, error) {
	actor, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}
	if actor.ID == input.ID {
		return nil, huma.Error422UnprocessableEntity("admins cannot delete their own account")
	}

	if err := h.store.DeleteUser(ctx, input.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("user not found")
		}
		return nil, huma.Error500InternalServerError("deleting user failed: " + err.Error())
	}
	return nil, nil
}

// RegisterUserRoutes registers admin user management endpoints with the Huma API.
func RegisterUserRoutes(api huma.API, h *UsersHandler, authn *middleware.Authenticator) {
	admin := huma.Middlewares{authn.RequireAdmin(api)}

	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List registered accounts",
		Tags:        []string{"users"},
		Middlewares: admin,
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError},
	}, h.ListUsers)

	huma.Register(api, huma.Operation{
		OperationID:   "update-user-role",
		Method:        http.MethodPut,
		Path:          "/api/v1/users/{id}/role",
		Summary:       "Change an account's role",
		Tags:          []string{"users"},
		Middlewares:   admin,
		DefaultStatus: http.StatusNoContent,
		Errors: []int{
			http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusUnprocessableEntity,
		},
	}, h.UpdateUserRole)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-user",
		Method:        http.MethodDelete,
		Path:          "/api/v1/users/{id}",
		Summary:       "Delete an account",
		Tags:          []string{"users"},
		Middlewares:   admin,
		DefaultStatus: http.StatusNoContent,
		Errors: []int{
			http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusUnprocessableEntity,
		},
	}, h.DeleteUser)
}
