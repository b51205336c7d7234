package flagutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackhand/go-sdk/pkg/testutil"
)

func fakeEnv(vars map[string]string) EnvFunc {
	return func(key string) (string, bool) {
		value, ok := vars[key]
		return value, ok
	}
}

func TestDefaultResolutionOrder(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		argv []string
		want string
	}{
		{
			name: "hardcoded default",
			want: "localhost",
		},
		{
			name: "environment beats default",
			env:  map[string]string{"DATABASE_HOST": "db.internal"},
			want: "db.internal",
		},
		{
			name: "flag beats environment",
			env:  map[string]string{"DATABASE_HOST": "db.internal"},
			argv: []string{"--host", "db.staging"},
			want: "db.staging",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parser := New("test", WithEnv(fakeEnv(tc.env)))
			host := parser.Group("database").String(Spec{Name: "host"}, "localhost", "Database host.")

			argv := tc.argv
			if argv == nil {
				argv = []string{}
			}

			_, err := parser.Parse(argv)
			require.NoError(t, err)
			assert.Equal(t, tc.want, *host)
		})
	}
}

func TestEnvKeyDerivation(t *testing.T) {
	env := map[string]string{
		"DATABASE_MAX_IDLE_CONNS": "7",
		"PGPASSWORD":              "hunter2",
		"LOG_LEVEL":               "debug",
	}

	parser := New("test", WithEnv(fakeEnv(env)))

	// Dashes become underscores and everything is uppercased.
	conns := parser.Group("database").Int(Spec{Name: "max-idle-conns"}, 2, "")

	// An explicit key wins over the derived one.
	password := parser.Group("database").String(Spec{Name: "password", EnvVar: "PGPASSWORD"}, "", "")

	// Groups without a prefix derive the key from the bare flag name.
	level := parser.Group("logging", WithoutEnvPrefix()).String(Spec{Name: "log-level"}, "warning", "")

	_, err := parser.Parse([]string{})
	require.NoError(t, err)

	assert.Equal(t, 7, *conns)
	assert.Equal(t, "hunter2", *password)
	assert.Equal(t, "debug", *level)
}

func TestNoEnvIgnoresEnvironment(t *testing.T) {
	env := map[string]string{"DATABASE_HOST": "db.internal"}

	parser := New("test", WithEnv(fakeEnv(env)))
	host := parser.Group("database").String(Spec{Name: "host", NoEnv: true}, "localhost", "")

	_, err := parser.Parse([]string{})
	require.NoError(t, err)
	assert.Equal(t, "localhost", *host)
}

func TestTypedEnvironmentValues(t *testing.T) {
	env := map[string]string{
		"JOB_VERBOSE": "true",
		"JOB_RETRIES": "5",
		"JOB_TIMEOUT": "1m30s",
		"JOB_TAGS":    "red,green",
	}

	parser := New("test", WithEnv(fakeEnv(env)))
	group := parser.Group("job")

	verbose := group.Bool(Spec{Name: "verbose"}, false, "")
	retries := group.Int(Spec{Name: "retries"}, 0, "")
	timeout := group.Duration(Spec{Name: "timeout"}, time.Second, "")

	var tags []string
	group.StringSliceVar(&tags, Spec{Name: "tags"}, nil, "")

	_, err := parser.Parse([]string{})
	require.NoError(t, err)

	assert.True(t, *verbose)
	assert.Equal(t, 5, *retries)
	assert.Equal(t, 90*time.Second, *timeout)
	assert.Equal(t, []string{"red", "green"}, tags)
}

func TestMalformedEnvironmentValue(t *testing.T) {
	env := map[string]string{"JOB_RETRIES": "many"}

	parser := New("test", WithEnv(fakeEnv(env)))
	parser.Group("job").Int(Spec{Name: "retries"}, 0, "")

	err := parser.Err()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "retries", cfgErr.Flag)

	_, err = parser.Parse([]string{})
	assert.Error(t, err, "parse must refuse to run with configuration errors")
}

func TestHelpSuffixes(t *testing.T) {
	env := map[string]string{"DATABASE_HOST": "db.internal"}

	parser := New("test", WithEnv(fakeEnv(env)))
	group := parser.Group("database")

	group.String(Spec{Name: "host"}, "localhost", "Database host.")
	group.String(Spec{Name: "user", NoEnvHelp: true}, "postgres", "Database user.")
	group.String(Spec{Name: "password", NoDefaultHelp: true}, "", "Database password.")
	group.String(Spec{Name: "schema", NoEnv: true}, "public", "Database schema.")

	usage := parser.Usage()

	assert.Contains(t, usage, "Database host. (env: DATABASE_HOST) (default: localhost)")
	assert.Contains(t, usage, "Database user. (default: postgres)")
	assert.Contains(t, usage, "Database password. (env: DATABASE_PASSWORD)")
	assert.Contains(t, usage, "Database schema. (default: public)")
	assert.NotContains(t, usage, "DATABASE_SCHEMA")
}

func TestHelpShowsCallerDefaultDespiteEnvOverride(t *testing.T) {
	env := map[string]string{"DATABASE_HOST": "db.internal"}

	parser := New("test", WithEnv(fakeEnv(env)))
	host := parser.Group("database").String(Spec{Name: "host"}, "localhost", "Database host.")

	_, err := parser.Parse([]string{})
	require.NoError(t, err)

	// The resolved value comes from the environment, but the help text keeps
	// advertising the hardcoded default.
	assert.Equal(t, "db.internal", *host)
	assert.Contains(t, parser.Usage(), "(default: localhost)")
	assert.NotContains(t, parser.Usage(), "(default: db.internal)")
}

func TestConfigurationErrors(t *testing.T) {
	cases := []struct {
		name     string
		register func(p *Parser)
		reason   string
	}{
		{
			name: "missing name with env fallback",
			register: func(p *Parser) {
				p.Group("database").String(Spec{Shorthand: "H"}, "", "")
			},
			reason: "either disable the environment variable fallback or provide a long flag name",
		},
		{
			name: "missing name without env fallback",
			register: func(p *Parser) {
				p.Group("database").String(Spec{Shorthand: "H", NoEnv: true}, "", "")
			},
			reason: "a long flag name is required",
		},
		{
			name: "unusable environment key",
			register: func(p *Parser) {
				p.Group("misc", WithoutEnvPrefix()).String(Spec{Name: "-"}, "", "")
			},
			reason: "flag name does not yield a usable environment key",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parser := New("test", WithEnv(fakeEnv(nil)))
			tc.register(parser)

			err := parser.Err()
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Error(), tc.reason)
		})
	}
}

func TestGroupCache(t *testing.T) {
	parser := New("test")

	first := parser.Group("database", WithEnvPrefix("DB"))
	second := parser.Group("database", WithEnvPrefix("IGNORED"))

	assert.Same(t, first, second)
	assert.Len(t, parser.Groups(), 1)

	env := map[string]string{"DB_HOST": "db.internal"}
	parser = New("test", WithEnv(fakeEnv(env)))
	host := parser.Group("database", WithEnvPrefix("DB")).String(Spec{Name: "host"}, "localhost", "")

	// The second lookup must keep the prefix of the first registration.
	parser.Group("database")

	_, err := parser.Parse([]string{})
	require.NoError(t, err)
	assert.Equal(t, "db.internal", *host)
}

func TestChoices(t *testing.T) {
	newParser := func() *Parser {
		p := New("test", WithEnv(fakeEnv(nil)))
		p.Group("logging").String(Spec{Name: "level", Choices: []string{"error", "info"}}, "info", "")
		return p
	}

	_, err := newParser().Parse([]string{"--level", "error"})
	assert.NoError(t, err)

	_, err = newParser().Parse([]string{"--level", "loud"})
	require.Error(t, err)

	var usageErr *UsageError
	require.ErrorAs(t, err, &usageErr)
	assert.Contains(t, usageErr.Error(), `invalid value "loud" for --level`)
	assert.Contains(t, usageErr.Error(), "choose from: error, info")
}

func TestPositionals(t *testing.T) {
	newParser := func(target *string) *Parser {
		p := New("test", WithEnv(fakeEnv(nil)))
		group := p.Group("job")
		group.String(Spec{Name: "queue"}, "default", "")
		group.StringVar(target, Spec{Name: "action", Positional: true}, "", "Action to run.")
		return p
	}

	t.Run("bound", func(t *testing.T) {
		var action string
		options, err := newParser(&action).Parse([]string{"--queue", "fast", "migrate", "now"})
		require.NoError(t, err)

		assert.Equal(t, "migrate", action)
		assert.Equal(t, "migrate", options.Positional("action"))
		assert.Equal(t, []string{"now"}, options.Args())
	})

	t.Run("missing", func(t *testing.T) {
		var action string
		_, err := newParser(&action).Parse([]string{})
		require.Error(t, err)

		var usageErr *UsageError
		require.ErrorAs(t, err, &usageErr)
		assert.Contains(t, usageErr.Error(), `missing required argument "action"`)
	})
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	parser := New("test", WithEnv(fakeEnv(nil)))
	parser.Group("job").String(Spec{Name: "queue"}, "default", "")

	_, err := parser.Parse([]string{"--nope"})
	require.Error(t, err)

	var usageErr *UsageError
	assert.ErrorAs(t, err, &usageErr)
}

func TestResolvedOptions(t *testing.T) {
	env := map[string]string{"DATABASE_USER": "svc-user"}

	parser := New("test", WithEnv(fakeEnv(env)))
	group := parser.Group("database")

	group.String(Spec{Name: "host"}, "localhost", "")
	group.String(Spec{Name: "user"}, "postgres", "")
	group.Duration(Spec{Name: "connect-timeout"}, 5*time.Second, "")

	var action string
	group.StringVar(&action, Spec{Name: "action", Positional: true}, "", "")

	options, err := parser.Parse([]string{"--host", "db.internal", "migrate"})
	require.NoError(t, err)

	testutil.AssertGoldenYAML(t, "testdata/options.yaml", options.Visit())
}
