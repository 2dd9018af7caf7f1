package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// NextRefresh returns a stat panel showing time until the next scheduled
// catalog refresh.
func NextRefresh() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Next Refresh").
		Description("Time until the next scheduled catalog refresh").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(
			JobSelector("dcmp_scheduler_next_refresh_timestamp")+` - time()`,
			"", "A",
		)).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// RefreshDuration returns a timeseries panel showing the p95 catalog load
// duration.
func RefreshDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Refresh Duration (p95)").
		Description("95th percentile time to page the full catalog from upstream").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(P95("dcmp_catalog_refresh_duration_seconds"), "p95", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RefreshErrors returns a timeseries panel showing failed catalog loads per
// minute.
func RefreshErrors() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Refresh Errors / min").
		Description("Catalog loads that failed against upstream").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`dcmp:catalog_refresh_errors:rate5m * 60`, "errors/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// StaleServes returns a stat panel counting loads served from the stored
// catalog in the past 24 hours.
func StaleServes() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Stale Serves (24h)").
		Description("Catalog loads answered from stored records while upstream was down").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(dcmp_catalog_stale_serves_total{job="device-compare"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
