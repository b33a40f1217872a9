package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HealthzUp)
	assert.NotNil(t, ReadyzUp)
	assert.NotNil(t, RefreshDuration)
	assert.NotNil(t, RefreshErrorsTotal)
	assert.NotNil(t, RefreshRejectedTotal)
	assert.NotNil(t, DealsWrittenTotal)
	assert.NotNil(t, BannerBackfillsTotal)
	assert.NotNil(t, ITADAPICallsTotal)
	assert.NotNil(t, WebhookDealsTotal)
	assert.NotNil(t, NotificationsSentTotal)
	assert.NotNil(t, NotificationFailuresTotal)
}
