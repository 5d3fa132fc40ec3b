package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordDatagram(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics() // second call is a no-op

	count := DatagramCount.WithLabelValues(METRIC_ROLE_SERVER, METRIC_FLOW_RECV)
	bytes := DatagramBytes.WithLabelValues(METRIC_ROLE_SERVER, METRIC_FLOW_RECV)
	beforeCount, beforeBytes := testutil.ToFloat64(count), testutil.ToFloat64(bytes)

	RecordDatagram(METRIC_ROLE_SERVER, METRIC_FLOW_RECV, 5)

	assert.Equal(t, beforeCount+1, testutil.ToFloat64(count))
	assert.Equal(t, beforeBytes+5, testutil.ToFloat64(bytes))
}
