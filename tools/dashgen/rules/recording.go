package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "dealwarden-recording-rules",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "dealwarden-recording",
					Rules: []Rule{
						{
							Record: "dealwarden:http_requests:rate5m",
							Expr:   `sum(rate(dealwarden_http_requests_total[5m]))`,
						},
						{
							Record: "dealwarden:http_errors:rate5m",
							Expr:   `sum(rate(dealwarden_http_requests_total{status=~"5.."}[5m]))`,
						},
						{
							Record: "dealwarden:deals_written:rate5m",
							Expr:   `rate(dealwarden_deals_written_total[5m])`,
						},
						{
							Record: "dealwarden:refresh_errors:rate5m",
							Expr:   `rate(dealwarden_refresh_errors_total[5m])`,
						},
						{
							Record: "dealwarden:itad_api_calls:rate5m",
							Expr:   `rate(dealwarden_itad_api_calls_total[5m])`,
						},
						{
							Record: "dealwarden:notifications_sent:rate5m",
							Expr:   `rate(dealwarden_notifications_sent_total[5m])`,
						},
					},
				},
			},
		},
	}
}
