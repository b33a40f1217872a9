package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dealwarden/dealwarden/internal/auth"
	"github.com/dealwarden/dealwarden/internal/store"
	domain "github.com/dealwarden/dealwarden/pkg/types"
)

// CronSecretHeader authenticates external scheduler triggers.
const CronSecretHeader = "x-cron-secret"

type userContextKey struct{}

// UserFromContext returns the authenticated user attached by the auth
// middleware, or false when the request was authenticated another way
// (e.g. cron secret).
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*domain.User)
	return u, ok
}

// Authenticator builds Huma operation middlewares enforcing the access tiers:
// any authenticated user, approved users (admins or invite redeemers), and
// admins only.
type Authenticator struct {
	tokens     *auth.TokenIssuer
	store      store.Store
	cronSecret string
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(tokens *auth.TokenIssuer, s store.Store, cronSecret string) *Authenticator {
	return &Authenticator{tokens: tokens, store: s, cronSecret: cronSecret}
}

// RequireUser returns middleware that rejects requests without a valid
// session token and attaches the current user to the request context.
func (a *Authenticator) RequireUser(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		user, ok := a.resolveUser(api, ctx)
		if !ok {
			return
		}
		next(huma.WithValue(ctx, userContextKey{}, user))
	}
}

// RequireApproved returns middleware that additionally requires the user to
// be an admin or to have redeemed an invite code.
func (a *Authenticator) RequireApproved(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		user, ok := a.resolveUser(api, ctx)
		if !ok {
			return
		}

		if !user.IsAdmin() {
			redeemed, err := a.store.HasRedeemedInvite(ctx.Context(), user.ID)
			if err != nil {
				_ = huma.WriteErr(api, ctx, http.StatusInternalServerError,
					"checking account status")
				return
			}
			if !redeemed {
				_ = huma.WriteErr(api, ctx, http.StatusForbidden,
					"an invite code is required for this action")
				return
			}
		}

		next(huma.WithValue(ctx, userContextKey{}, user))
	}
}

// RequireAdmin returns middleware that rejects non-admin users.
func (a *Authenticator) RequireAdmin(api huma.API) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		user, ok := a.resolveUser(api, ctx)
		if !ok {
			return
		}
		if !user.IsAdmin() {
			_ = huma.WriteErr(api, ctx, http.StatusForbidden, "admin access required")
			return
		}
		next(huma.WithValue(ctx, userContextKey{}, user))
	}
}

// CronOrAdmin returns middleware that admits requests carrying the shared
// cron secret header, falling back to admin session auth otherwise.
func (a *Authenticator) CronOrAdmin(api huma.API) func(huma.Context, func(huma.Context)) {
	adminCheck := a.RequireAdmin(api)
	return func(ctx huma.Context, next func(huma.Context)) {
		if a.cronSecret != "" && secretMatches(ctx.Header(CronSecretHeader), a.cronSecret) {
			next(ctx)
			return
		}
		adminCheck(ctx, next)
	}
}

// secretMatches compares the presented secret in constant time so the header
// check leaks no timing signal.
func secretMatches(presented, want string) bool {
	return subtle.ConstantTimeCompare([]byte(presented), []byte(want)) == 1
}

// resolveUser validates the bearer token and loads the current account. The
// stored role wins over the token's claim so demotions take effect before
// token expiry. On failure it writes the error response and returns false.
func (a *Authenticator) resolveUser(api huma.API, ctx huma.Context) (*domain.User, bool) {
	header := ctx.Header("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	claims, err := a.tokens.Parse(strings.TrimPrefix(header, prefix))
	if err != nil {
		_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired session")
		return nil, false
	}

	user, err := a.store.GetUser(ctx.Context(), claims.Subject)
	if err != nil {
		_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "account no longer exists")
		return nil, false
	}
	return user, true
}
