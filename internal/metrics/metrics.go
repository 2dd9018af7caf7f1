// Package metrics defines Prometheus metrics for device-compare.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dcmp"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Upstream catalog API metrics.
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total upstream API requests by endpoint and status code.",
	}, []string{"endpoint", "status"})

	UpstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total upstream API requests that failed before a response was read.",
	}, []string{"endpoint"})

	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	UpstreamDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "upstream_daily_usage",
		Help:      "Current daily upstream call count within the rolling 24-hour window.",
	})

	UpstreamDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_daily_limit_hits_total",
		Help:      "Total number of times the daily upstream call limit was reached.",
	})
)

// Adaptation metrics.
var (
	ProductsAdaptedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_adapted_total",
		Help:      "Total number of upstream records adapted into products, by source shape.",
	}, []string{"source"})

	FallbackPriceEntriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_price_entries_total",
		Help:      "Total number of products that fell back to a single estimated price entry.",
	})

	ExpertPanelsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expert_panels_total",
		Help:      "Total number of products that carried an expert review panel.",
	})
)

// Catalog metrics.
var (
	CatalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_products",
		Help:      "Number of products in the current directory snapshot.",
	})

	CatalogRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_refresh_duration_seconds",
		Help:      "Duration of catalog directory loads in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	CatalogRefreshErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_refresh_errors_total",
		Help:      "Total number of failed catalog directory loads.",
	})

	CatalogStaleServesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_stale_serves_total",
		Help:      "Total number of times persisted records were served because upstream failed.",
	})

	SchedulerNextRefreshTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_refresh_timestamp",
		Help:      "Unix timestamp of the next scheduled catalog refresh.",
	})
)

// Quota metrics.
var (
	QuotaRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quota_rejections_total",
		Help:      "Total number of anonymous searches rejected by the search quota.",
	})
)

// Health metrics.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the last liveness check passed.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the last readiness check found the store reachable, 0 otherwise.",
	})
)
