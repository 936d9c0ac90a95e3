// internal/observability/metrics_test.go
package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	if c := out.GetCounter(); c != nil {
		return c.GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordPoll("drive", 12*time.Millisecond, nil)
	RecordPoll("drive", 30*time.Millisecond, errors.New("timeout"))
	RecordFrame("registers", nil)
	RecordSecondsInError("drive", 7)

	assert.Equal(t, 1.0, value(t, polls.WithLabelValues("drive", "true")))
	assert.Equal(t, 1.0, value(t, polls.WithLabelValues("drive", "false")))
	assert.Equal(t, 7.0, value(t, secondsInError.WithLabelValues("drive")))
}
