package statsutil

import (
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/pkg/errors"
)

type statsdClient struct {
	client *statsd.Client
}

func newStatsd(addr, namespace string) (Client, error) {
	client, err := statsd.New(addr, statsd.WithNamespace(namespace))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create statsd client")
	}

	return &statsdClient{client: client}, nil
}

func (c *statsdClient) Incr(name string) {
	// Sending is fire-and-forget over UDP anyway, so errors are not worth
	// surfacing to the caller.
	_ = c.client.Incr(name, nil, 1)
}

func (c *statsdClient) Timing(name string, d time.Duration) {
	_ = c.client.Timing(name, d, nil, 1)
}

func (c *statsdClient) Timer(name string) func() {
	start := time.Now()
	return func() {
		c.Timing(name, time.Since(start))
	}
}

func (c *statsdClient) Close() error {
	return errors.WithStack(c.client.Close())
}
