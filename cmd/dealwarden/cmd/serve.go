package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dealwarden/dealwarden/internal/api"
	"github.com/dealwarden/dealwarden/internal/auth"
	"github.com/dealwarden/dealwarden/internal/config"
	"github.com/dealwarden/dealwarden/internal/engine"
	"github.com/dealwarden/dealwarden/internal/itad"
	"github.com/dealwarden/dealwarden/internal/notify"
	"github.com/dealwarden/dealwarden/internal/store"
	"github.com/dealwarden/dealwarden/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and refresh scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pg.Close()

	pricing := itad.NewHTTPClient(cfg.ITAD.APIKey,
		itad.WithBaseURL(cfg.ITAD.BaseURL),
		itad.WithBatchSize(cfg.ITAD.BatchSize),
		itad.WithRateLimiter(itad.NewRateLimiter(
			cfg.ITAD.RateLimit.PerSecond,
			cfg.ITAD.RateLimit.Burst,
		)),
	)

	var notifier notify.Notifier
	if cfg.Notifications.Discord.Enabled {
		notifier = notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
		log.Info("discord notifications enabled")
	} else {
		notifier = notify.NewNoOpNotifier(log)
		log.Warn("no notification backend configured, deals will be logged only")
	}

	eng := engine.NewEngine(pg, pricing, notifier, engine.WithLogger(log))

	scheduler, err := engine.NewScheduler(eng, cfg.Schedule.RefreshInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	scheduler.Start()

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	e := api.NewRouter(api.Deps{
		Store:      pg,
		Pricing:    pricing,
		Engine:     eng,
		Tokens:     tokens,
		CronSecret: cfg.Auth.CronSecret,
		Log:        log,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr,
		"refresh_interval", cfg.Schedule.RefreshInterval.String())

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	// Let an in-flight refresh finish before closing the store: cutting a
	// pass off mid-write would desynchronize deal history from alerts.
	<-scheduler.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
