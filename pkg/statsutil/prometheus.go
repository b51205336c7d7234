package statsutil

import (
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var metricNamePattern = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

type prometheusClient struct {
	counters  *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewPrometheus creates a Client that is backed by a Prometheus registry.
// It is meant for applications that already expose Prometheus metrics and
// want the SDK counters to show up there instead of statsd. Counters are
// collected as <namespace>_events_total and durations as
// <namespace>_duration_seconds, with the measurement name as the "name"
// label.
func NewPrometheus(reg prometheus.Registerer, namespace string) (Client, error) {
	namespace = sanitizeMetricName(namespace)

	counters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_total",
		Help:      "Number of events counted via statsutil.",
	}, []string{"name"})

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "duration_seconds",
		Help:      "Durations measured via statsutil.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"name"})

	for _, collector := range []prometheus.Collector{counters, durations} {
		err := reg.Register(collector)
		if err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return &prometheusClient{
		counters:  counters,
		durations: durations,
	}, nil
}

func sanitizeMetricName(name string) string {
	return strings.Trim(metricNamePattern.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

func (c *prometheusClient) Incr(name string) {
	c.counters.WithLabelValues(sanitizeMetricName(name)).Inc()
}

func (c *prometheusClient) Timing(name string, d time.Duration) {
	c.durations.WithLabelValues(sanitizeMetricName(name)).Observe(d.Seconds())
}

func (c *prometheusClient) Timer(name string) func() {
	start := time.Now()
	return func() {
		c.Timing(name, time.Since(start))
	}
}

func (c *prometheusClient) Close() error {
	return nil
}
