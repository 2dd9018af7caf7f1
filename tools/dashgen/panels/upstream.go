package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// UpstreamCallsRate returns a timeseries panel showing upstream calls per
// second by endpoint.
func UpstreamCallsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Upstream Calls").
		Description("Upstream catalog API calls per second by endpoint").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(
			`sum(rate(dcmp_upstream_requests_total{job="device-compare"}[5m])) by (endpoint)`,
			"{{endpoint}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// UpstreamErrorRate returns a timeseries panel showing failed upstream calls
// as a percentage of all calls.
func UpstreamErrorRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Upstream Error %").
		Description("Failed upstream calls as percentage of total").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(
			`dcmp:upstream_errors:rate5m / dcmp:upstream_requests:rate5m * 100`,
			"error %", "A",
		)).
		Unit("percent").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(5, 20)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// UpstreamLatency returns a timeseries panel showing p95 upstream latency.
func UpstreamLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Upstream Latency (p95)").
		Description("95th percentile upstream call duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(P95("dcmp_upstream_request_duration_seconds"), "p95", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(2, 10)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DailyUsage returns a stat panel showing calls made in the current 24-hour
// budget window.
func DailyUsage() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Daily Upstream Usage").
		Description("Upstream calls made in the rolling 24h budget window").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(3).
		WithTarget(PromQuery(JobSelector("dcmp_upstream_daily_usage"), "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// LimitHits returns a stat panel showing the number of daily limit hits
// in the past 24 hours.
func LimitHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Limit Hits (24h)").
		Description("Times the upstream daily budget was exhausted in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(3).
		WithTarget(PromQuery(`increase(dcmp_upstream_daily_limit_hits_total{job="device-compare"}[24h])`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
