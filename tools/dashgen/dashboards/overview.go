// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/device-compare/tools/dashgen/panels"
)

// BuildOverview constructs the Device Compare overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Device Compare Overview").
		Uid("dcmp-overview").
		Tags([]string{"dcmp", "device-compare"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.CatalogProductsStat()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	b.WithRow(dashboard.NewRowBuilder("Upstream").
		WithPanel(panels.UpstreamCallsRate()).
		WithPanel(panels.UpstreamErrorRate()).
		WithPanel(panels.UpstreamLatency()).
		WithPanel(panels.DailyUsage()).
		WithPanel(panels.LimitHits()))

	b.WithRow(dashboard.NewRowBuilder("Catalog").
		WithPanel(panels.NextRefresh()).
		WithPanel(panels.RefreshDuration()).
		WithPanel(panels.RefreshErrors()).
		WithPanel(panels.StaleServes()))

	b.WithRow(dashboard.NewRowBuilder("Storefront").
		WithPanel(panels.AdaptedProducts()).
		WithPanel(panels.PriceAndExpertCoverage()).
		WithPanel(panels.QuotaRejections()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
