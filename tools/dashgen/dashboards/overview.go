// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/dealwarden/dealwarden/tools/dashgen/panels"
)

// BuildOverview constructs the Dealwarden Overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Dealwarden Overview").
		Uid("dealwarden-overview").
		Tags([]string{"dealwarden"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Refresh.
	b.WithRow(dashboard.NewRowBuilder("Refresh").
		WithPanel(panels.PassDuration()).
		WithPanel(panels.DealsWrittenRate()).
		WithPanel(panels.RefreshErrors()).
		WithPanel(panels.RejectedTriggers()).
		WithPanel(panels.BannerBackfills()))

	// Row 4: Pricing API.
	b.WithRow(dashboard.NewRowBuilder("Pricing API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.WebhookDealsRate()))

	// Row 5: Notifications.
	b.WithRow(dashboard.NewRowBuilder("Notifications").
		WithPanel(panels.NotificationsRate()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
