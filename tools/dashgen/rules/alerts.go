package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// dealwarden operational monitoring.
func AlertRules() PrometheusRule {
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata: PrometheusRuleMetadata{
			Name: "dealwarden-alerts",
			Labels: map[string]string{
				"prometheus": "system-rules-prometheus",
			},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{
				{
					Name: "dealwarden-alerts",
					Rules: []Rule{
						{
							Alert: "DealwardenDown",
							Expr:  `absent(up{job="dealwarden"})`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Dealwarden is down",
								"description": "The dealwarden job has been absent for more than 2 minutes.",
							},
						},
						{
							Alert: "DealwardenReadinessDown",
							Expr:  `dealwarden_readyz_up == 0`,
							For:   "2m",
							Labels: map[string]string{
								"severity": "critical",
							},
							Annotations: map[string]string{
								"summary":     "Dealwarden readiness check is failing",
								"description": "The readiness probe has been reporting not-ready for more than 2 minutes. The database is likely unreachable.",
							},
						},
						{
							Alert: "DealwardenHighErrorRate",
							Expr:  `dealwarden:http_errors:rate5m / dealwarden:http_requests:rate5m > 0.05`,
							For:   "5m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "High HTTP error rate on dealwarden",
								"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
							},
						},
						{
							Alert: "DealwardenRefreshErrors",
							Expr:  `dealwarden:refresh_errors:rate5m > 0`,
							For:   "10m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Price refresh passes are failing",
								"description": "Refresh passes have been failing for more than 10 minutes. Tracked prices are going stale.",
							},
						},
						{
							Alert: "DealwardenRefreshStalled",
							Expr:  `rate(dealwarden_itad_api_calls_total[30m]) == 0`,
							For:   "30m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "No pricing API activity",
								"description": "No IsThereAnyDeal API calls have been made in 30 minutes. The refresh scheduler may have stalled.",
							},
						},
						{
							Alert: "DealwardenNotificationFailures",
							Expr:  `increase(dealwarden_notification_failures_total[5m]) > 0`,
							For:   "1m",
							Labels: map[string]string{
								"severity": "warning",
							},
							Annotations: map[string]string{
								"summary":     "Notification delivery failures detected",
								"description": "One or more deal notifications (Discord webhooks) have failed to send.",
							},
						},
					},
				},
			},
		},
	}
}
