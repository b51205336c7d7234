package statsutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	stats := Noop()

	stats.Incr("anything")
	stats.Timing("anything", time.Second)
	stats.Timer("anything")()

	assert.NoError(t, stats.Close())
}

func TestNewDisabledReturnsNoop(t *testing.T) {
	stats, err := New(Config{Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, Noop(), stats)
}

func TestNamespace(t *testing.T) {
	ns := namespace(Config{Environment: "prod", Prefix: "cli.myapp"})

	assert.True(t, strings.HasPrefix(ns, "prod."), ns)
	assert.True(t, strings.HasSuffix(ns, ".cli.myapp."), ns)
	assert.NotContains(t, strings.TrimSuffix(ns, "."), "..")

	ns = namespace(Config{Environment: "prod"})
	assert.True(t, strings.HasPrefix(ns, "prod."), ns)
	assert.True(t, strings.HasSuffix(ns, "."), ns)
}

func TestEnvironment(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		t.Setenv("STATS_ENVIRONMENT", "")
		t.Setenv("STATSD_ENVIRONMENT", "")
		assert.Equal(t, DefaultEnvironment, Environment())
	})

	t.Run("legacy key", func(t *testing.T) {
		t.Setenv("STATS_ENVIRONMENT", "")
		t.Setenv("STATSD_ENVIRONMENT", "staging")
		assert.Equal(t, "staging", Environment())
	})

	t.Run("primary key wins", func(t *testing.T) {
		t.Setenv("STATS_ENVIRONMENT", "prod")
		t.Setenv("STATSD_ENVIRONMENT", "staging")
		assert.Equal(t, "prod", Environment())
	})
}
