package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// PassDuration returns a timeseries panel showing the p95 refresh pass
// duration.
func PassDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Pass Duration (p95)").
		Description("95th percentile price refresh pass duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(dealwarden_refresh_duration_seconds_bucket{job="dealwarden"}[5m])) by (le))`,
			"p95",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DealsWrittenRate returns a timeseries panel showing deal records written
// per minute.
func DealsWrittenRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Deals Written / min").
		Description("Rate of deal records persisted per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`dealwarden:deals_written:rate5m * 60`, "deals/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RefreshErrors returns a timeseries panel showing failed refresh passes
// per minute.
func RefreshErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Refresh Errors / min").
		Description("Rate of failed refresh passes per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`dealwarden:refresh_errors:rate5m * 60`, "errors/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RejectedTriggers returns a stat panel showing refresh triggers rejected
// in the past 24 hours because a pass was already running.
func RejectedTriggers() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Rejected Triggers (24h)").
		Description("Refresh triggers rejected while a pass was in flight").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(dealwarden_refresh_rejected_total{job="dealwarden"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(5, 20)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// BannerBackfills returns a stat panel showing banner URLs backfilled in
// the past 24 hours.
func BannerBackfills() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Banner Backfills (24h)").
		Description("Artwork URLs backfilled during refresh passes").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(dealwarden_banner_backfills_total{job="dealwarden"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
