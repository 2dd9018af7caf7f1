package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// device-compare operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "dcmp-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "dcmp-alerts",
					Rules: []Rule{
						{
							Alert: "DcmpDown",
							Expr:  `absent(up{job="device-compare"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Device Compare is down",
								"description": "The device-compare job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "DcmpReadinessDown",
							Expr:  `dcmp_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Device Compare readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes.",
							},
						},
						{
							Alert: "DcmpHighErrorRate",
							Expr:  `dcmp:http_errors:rate5m / dcmp:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on Device Compare",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "DcmpUpstreamErrors",
							Expr:  `dcmp:upstream_errors:rate5m / dcmp:upstream_requests:rate5m > 0.2`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Upstream catalog API is failing",
								"description": "More than 20% of upstream catalog calls have failed over the last 5 minutes.",
							},
						},
						{
							Alert: "DcmpCatalogStale",
							Expr:  `increase(dcmp_catalog_stale_serves_total[15m]) > 0`,
							For:   "15m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Catalog is being served from stored records",
								"description": "Upstream has been unavailable and the stored catalog has been served for more than 15 minutes.",
							},
						},
						{
							Alert: "DcmpCatalogEmpty",
							Expr:  `dcmp_catalog_products == 0`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Catalog snapshot has no products",
								"description": "The in-memory catalog has held zero products for more than 10 minutes.",
							},
						},
						{
							Alert: "DcmpUpstreamLimitReached",
							Expr:  `increase(dcmp_upstream_daily_limit_hits_total[5m]) > 0`,
							For:   "0m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Upstream daily call budget has been reached",
								"description": "The upstream daily budget is exhausted. Refreshes and comparisons fail until the window resets.",
							},
						},
					},
				},
			},
		},
	}
}
