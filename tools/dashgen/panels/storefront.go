package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// AdaptedProducts returns a timeseries panel showing products adapted per
// minute, split by whether they came from upstream or the stored catalog.
func AdaptedProducts() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Products Adapted / min").
		Description("Catalog records adapted into storefront products").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(dcmp_products_adapted_total{job="device-compare"}[5m])) by (source) * 60`,
			"{{source}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// PriceAndExpertCoverage returns a timeseries panel comparing market price
// fallbacks and expert panels against adapted products.
func PriceAndExpertCoverage() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Fallback Prices & Expert Panels").
		Description("Products shown with a market price fallback, and products with an expert panel").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`rate(dcmp_fallback_price_entries_total{job="device-compare"}[5m]) * 60`, "fallback price", "A")).
		WithTarget(PromQuery(`rate(dcmp_expert_panels_total{job="device-compare"}[5m]) * 60`, "expert panel", "B")).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// QuotaRejections returns a timeseries panel showing anonymous searches
// turned away by the search quota.
func QuotaRejections() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Quota Rejections / min").
		Description("Anonymous searches rejected for exceeding the search limit").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`dcmp:quota_rejections:rate5m * 60`, "rejections/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
