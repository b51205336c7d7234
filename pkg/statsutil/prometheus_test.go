package statsutil

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusIncr(t *testing.T) {
	reg := prometheus.NewRegistry()

	stats, err := NewPrometheus(reg, "myapp")
	require.NoError(t, err)

	stats.Incr("error.run_cmd")
	stats.Incr("error.run_cmd")
	stats.Incr("index.rebuild")

	client := stats.(*prometheusClient)
	assert.Equal(t, 2., promtest.ToFloat64(client.counters.WithLabelValues("error_run_cmd")))
	assert.Equal(t, 1., promtest.ToFloat64(client.counters.WithLabelValues("index_rebuild")))
}

func TestPrometheusTiming(t *testing.T) {
	reg := prometheus.NewRegistry()

	stats, err := NewPrometheus(reg, "myapp")
	require.NoError(t, err)

	stats.Timing("index.rebuild", 250*time.Millisecond)
	stats.Timer("index.rebuild")()

	count, err := promtest.GatherAndCount(reg, "myapp_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.NoError(t, stats.Close())
}

func TestPrometheusDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewPrometheus(reg, "myapp")
	require.NoError(t, err)

	_, err = NewPrometheus(reg, "myapp")
	assert.Error(t, err)
}

func TestSanitizeMetricName(t *testing.T) {
	cases := map[string]string{
		"error.run_cmd": "error_run_cmd",
		"cli.my-app":    "cli_my_app",
		"Already_Fine":  "already_fine",
		".leading.":     "leading",
	}

	for input, want := range cases {
		assert.Equal(t, want, sanitizeMetricName(input))
	}
}
