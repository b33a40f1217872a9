package main

import "errors"

// KnownMetrics is the set of metric names exported by dealwarden plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"dealwarden_http_request_duration_seconds": true,
	"dealwarden_http_requests_total":           true,

	// Health metrics.
	"dealwarden_healthz_up": true,
	"dealwarden_readyz_up":  true,

	// Refresh metrics.
	"dealwarden_refresh_duration_seconds": true,
	"dealwarden_refresh_errors_total":     true,
	"dealwarden_refresh_rejected_total":   true,
	"dealwarden_deals_written_total":      true,
	"dealwarden_banner_backfills_total":   true,

	// Pricing API metrics.
	"dealwarden_itad_api_calls_total": true,
	"dealwarden_webhook_deals_total":  true,

	// Notification metrics.
	"dealwarden_notifications_sent_total":    true,
	"dealwarden_notification_failures_total": true,

	// Recording rules.
	"dealwarden:http_requests:rate5m":      true,
	"dealwarden:http_errors:rate5m":        true,
	"dealwarden:deals_written:rate5m":      true,
	"dealwarden:itad_api_calls:rate5m":     true,
	"dealwarden:notifications_sent:rate5m": true,
	"dealwarden:refresh_errors:rate5m":     true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
