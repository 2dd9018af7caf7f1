package main

import "errors"

// KnownMetrics is the set of metric names exported by device-compare plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"dcmp_http_request_duration_seconds": true,
	"dcmp_http_requests_total":           true,

	// Health metrics.
	"dcmp_healthz_up": true,
	"dcmp_readyz_up":  true,

	// Upstream metrics.
	"dcmp_upstream_requests_total":           true,
	"dcmp_upstream_errors_total":             true,
	"dcmp_upstream_request_duration_seconds": true,
	"dcmp_upstream_daily_usage":              true,
	"dcmp_upstream_daily_limit_hits_total":   true,

	// Catalog metrics.
	"dcmp_products_adapted_total":           true,
	"dcmp_fallback_price_entries_total":     true,
	"dcmp_expert_panels_total":              true,
	"dcmp_catalog_products":                 true,
	"dcmp_catalog_refresh_duration_seconds": true,
	"dcmp_catalog_refresh_errors_total":     true,
	"dcmp_catalog_stale_serves_total":       true,
	"dcmp_scheduler_next_refresh_timestamp": true,

	// Quota metrics.
	"dcmp_quota_rejections_total": true,

	// Recording rules.
	"dcmp:http_requests:rate5m":          true,
	"dcmp:http_errors:rate5m":            true,
	"dcmp:upstream_requests:rate5m":      true,
	"dcmp:upstream_errors:rate5m":        true,
	"dcmp:catalog_refresh_errors:rate5m": true,
	"dcmp:quota_rejections:rate5m":       true,

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
