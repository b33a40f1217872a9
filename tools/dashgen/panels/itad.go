package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// APICallsRate returns a timeseries panel showing IsThereAnyDeal API calls
// per minute.
func APICallsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("API Calls / min").
		Description("Rate of IsThereAnyDeal API calls per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`dealwarden:itad_api_calls:rate5m * 60`, "calls/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// WebhookDealsRate returns a timeseries panel showing deals ingested via
// webhook push per minute.
func WebhookDealsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Webhook Deals / min").
		Description("Rate of deals ingested via webhook push per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`rate(dealwarden_webhook_deals_total{job="dealwarden"}[5m]) * 60`, "deals/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
