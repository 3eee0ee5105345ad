package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/friends", "200"))
	RecordHTTPRequest("GET", "/friends", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/friends", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordHTTPRequestUnknownRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404"))
	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unknown", "404")))
}

func TestEventCounters(t *testing.T) {
	before := testutil.ToFloat64(eventsPublishedTotal.WithLabelValues("friendship.accepted"))
	IncEventPublished("friendship.accepted")
	assert.Equal(t, before+1, testutil.ToFloat64(eventsPublishedTotal.WithLabelValues("friendship.accepted")))

	errBefore := testutil.ToFloat64(amqpPublishErrorsTotal)
	IncAMQPPublishError()
	assert.Equal(t, errBefore+1, testutil.ToFloat64(amqpPublishErrorsTotal))
}

func TestInitMetricsRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() {
		InitMetrics(reg)
		InitMetrics(reg)
	})
}
