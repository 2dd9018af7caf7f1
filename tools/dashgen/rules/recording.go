package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "dcmp-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "dcmp-recording",
					Rules: []Rule{
						{
							Record: "dcmp:http_requests:rate5m",
							Expr:   `sum(rate(dcmp_http_requests_total[5m]))`,
						},
						{
							Record: "dcmp:http_errors:rate5m",
							Expr:   `sum(rate(dcmp_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "dcmp:upstream_requests:rate5m",
							Expr:   `sum(rate(dcmp_upstream_requests_total[5m]))`,
						},
						{
							Record: "dcmp:upstream_errors:rate5m",
							Expr:   `sum(rate(dcmp_upstream_errors_total[5m]))`,
						},
						{
							Record: "dcmp:catalog_refresh_errors:rate5m",
							Expr:   `rate(dcmp_catalog_refresh_errors_total[5m])`,
						},
						{
							Record: "dcmp:quota_rejections:rate5m",
							Expr:   `rate(dcmp_quota_rejections_total[5m])`,
						},
					},
				},
			},
		},
	}
}
