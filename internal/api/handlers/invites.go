package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dealwarden/dealwarden/internal/api/middleware"
	"github.com/dealwarden/dealwarden/internal/invite"
	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// InvitesProvider defines the store methods required by the invites handler.
type InvitesProvider interface {
	CreateInvites(ctx context.Context, createdBy string, codes []string) ([]domain.InviteCode, error)
	ListInvites(ctx context.Context) ([]domain.InviteCode, error)
	RedeemInvite(ctx context.Context, code string, userID string) (*domain.InviteCode, error)
	DeleteInvite(ctx context.Context, id int64) error
}

// InvitesHandler handles invite code management and redemption.
type InvitesHandler struct {
	store InvitesProvider
}

// NewInvitesHandler creates a new InvitesHandler.
func NewInvitesHandler(s InvitesProvider) *InvitesHandler {
	return &InvitesHandler{store: s}
}

// CreateInvitesInput is the request body for generating invite codes.
type CreateInvitesInput struct {
	Body struct {
		Count int `json:"count" default:"1" minimum:"1" maximum:"20" doc:"Number of codes to generate"`
	}
}

// CreateInvitesOutput is the response body for generated invite codes.
type CreateInvitesOutput struct {
	Body []domain.InviteCode
}

// CreateInvites generates a batch of single-use invite codes.
func (h *InvitesHandler) CreateInvites(
	ctx context.Context,
	input *CreateInvitesInput,
) (*CreateInvitesOutput, error) {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	codes, err := invite.GenerateCodes(input.Body.Count)
	if err != nil {
		return nil, huma.Error500InternalServerError("generating codes failed")
	}

	invites, err := h.store.CreateInvites(ctx, user.ID, codes)
	if err != nil {
		return nil, huma.Error500InternalServerError("creating invites failed: " + err.Error())
	}
	return &CreateInvitesOutput{Body: invites}, nil
}

// ListInvitesOutput is the response body for listing invite codes.
type ListInvitesOutput struct {
	Body []domain.InviteCode
}

// ListInvites returns all invite codes with creator and redeemer names.
func (h *InvitesHandler) ListInvites(ctx context.Context, _ *struct{}) (*ListInvitesOutput, error) {
	invites, err := h.store.ListInvites(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing invites failed: " + err.Error())
	}
	if invites == nil {
		invites = []domain.InviteCode{}
	}
	return &ListInvitesOutput{Body: invites}, nil
}

// RedeemInviteInput is the request body for redeeming an invite code.
type RedeemInviteInput struct {
	Body struct {
		Code string `json:"code" minLength:"1" maxLength:"32"`
	}
}

// RedeemInviteOutput is the response body after redeeming a code.
type RedeemInviteOutput struct {
	Body domain.InviteCode
}

// RedeemInvite claims an invite code for the authenticated user. Redeeming a
// code the user already holds succeeds again; a code held by someone else is
// rejected.
func (h *InvitesHandler) RedeemInvite(
	ctx context.Context,
	input *RedeemInviteInput,
) (*RedeemInviteOutput, error) {
	user, ok := middleware.UserFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	inv, err := h.store.RedeemInvite(ctx, input.Body.Code, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, huma.Error404NotFound("invite code not found")
		case errors.Is(err, store.ErrInviteRedeemed):
			return nil, huma.Error409Conflict("invite code already redeemed")
		default:
			return nil, huma.Error500InternalServerError("redeeming invite failed: " + err.Error())
		}
	}
	return &RedeemInviteOutput{Body: *inv}, nil
}

// DeleteInviteInput is the request path for deleting an invite code.
type DeleteInviteInput struct {
	ID int64 `path:"id" doc:"Invite code ID"`
}

// DeleteInvite removes an unredeemed invite code. Redeemed codes are kept
// as audit records.
func (h *InvitesHandler) DeleteInvite(
	ctx context.Context,
	input *DeleteInviteInput,
) (*struct{}, error) {
	if err := h.store.DeleteInvite(ctx, input.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("invite code not found or already redeemed")
		}
		return nil, huma.Error500InternalServerError("deleting invite failed: " + err.Error())
	}
	return nil, nil
}

// RegisterInviteRoutes registers invite endpoints with the Huma API.
// Managing codes is admin only; redemption needs any authenticated account.
func RegisterInviteRoutes(api huma.API, h *InvitesHandler, authn *middleware.Authenticator) {
	admin := huma.Middlewares{authn.RequireAdmin(api)}

	huma.Register(api, huma.Operation{
		OperationID: "create-invites",
		Method:      http.MethodPost,
		Path:        "/api/v1/invites",
		Summary:     "Generate invite codes",
		Tags:        []string{"invites"},
		Middlewares: admin,
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError},
	}, h.CreateInvites)

	huma.Register(api, huma.Operation{
		OperationID: "list-invites",
		Method:      http.MethodGet,
		Path:        "/api/v1/invites",
		Summary:     "List invite codes",
		Tags:        []string{"invites"},
		Middlewares: admin,
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError},
	}, h.ListInvites)

	huma.Register(api, huma.Operation{
		OperationID: "redeem-invite",
		Method:      http.MethodPost,
		Path:        "/api/v1/invites/redeem",
		Summary:     "Redeem an invite code",
		Tags:        []string{"invites"},
		Middlewares: huma.Middlewares{authn.RequireUser(api)},
		Errors: []int{
			http.StatusUnauthorized, http.StatusNotFound, http.StatusConflict,
		},
	}, h.RedeemInvite)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-invite",
		Method:        http.MethodDelete,
		Path:          "/api/v1/invites/{id}",
		Summary:       "Delete an unredeemed invite code",
		Tags:          []string{"invites"},
		Middlewares:   admin,
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, h.DeleteInvite)
}
