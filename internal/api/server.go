// Package api assembles the HTTP surface: the Echo server, the Huma API
// mounted on it, and every route the service exposes.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dealwarden/dealwarden/internal/api/handlers"
	"github.com/dealwarden/dealwarden/internal/api/middleware"
	"github.com/dealwarden/dealwarden/internal/auth"
	"github.com/dealwarden/dealwarden/internal/engine"
	"github.com/dealwarden/dealwarden/internal/itad"
	"github.com/dealwarden/dealwarden/internal/store"
)

// Deps holds everything the router needs. All fields are required.
type Deps struct {
	Store      store.Store
	Pricing    itad.Client
	Engine     *engine.Engine
	Tokens     *auth.TokenIssuer
	CronSecret string
	Log        *slog.Logger
}

// NewRouter builds the Echo server with middleware, health and metrics
// endpoints, and the versioned Huma API.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLog(deps.Log))
	e.Use(middleware.Recovery(deps.Log))
	e.Use(middleware.Metrics())

	healthH := handlers.NewHealthHandler(deps.Store)
	e.GET("/healthz", healthH.Healthz)
	e.GET("/readyz", healthH.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cfg := huma.DefaultConfig("dealwarden API", "1.0.0")
	cfg.Info.Description = "Video-game price tracking with deal notifications."
	api := humaecho.New(e, cfg)

	authn := middleware.NewAuthenticator(deps.Tokens, deps.Store, deps.CronSecret)

	handlers.RegisterAccountRoutes(api, handlers.NewAccountsHandler(deps.Store, deps.Tokens), authn)
	handlers.RegisterGameRoutes(api, handlers.NewGamesHandler(deps.Store, deps.Pricing), authn)
	handlers.RegisterDealRoutes(api, handlers.NewDealsHandler(deps.Store), authn)
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(deps.Pricing), authn)
	handlers.RegisterInviteRoutes(api, handlers.NewInvitesHandler(deps.Store), authn)
	handlers.RegisterUserRoutes(api, handlers.NewUsersHandler(deps.Store), authn)
	handlers.RegisterRefreshRoutes(api, handlers.NewRefreshHandler(deps.Engine, deps.Store), authn)
	handlers.RegisterWebhookRoutes(api, handlers.NewWebhookHandler(deps.Engine), authn)

	return e
}
