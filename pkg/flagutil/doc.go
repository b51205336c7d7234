// Package flagutil extends pflag-style argument parsing with named argument
// groups, environment variable fallback and auto-generated help text.
//
// Flags are registered on groups. Every group derives an environment variable
// prefix from its title (or an explicit prefix), and every flag of the group
// falls back to an environment variable before falling back to its hardcoded
// default:
//
//	parser := flagutil.New("myapp")
//	group := parser.Group("database")
//
//	var host string
//	group.StringVar(&host, flagutil.Spec{Name: "db-host"}, "localhost",
//	    "Database host to connect to.")
//
//	options, err := parser.Parse(os.Args[1:])
//
// With the registration above, setting DATABASE_DB_HOST overrides the
// "localhost" default, and the generated help text reads:
//
//	Database host to connect to. (env: DATABASE_DB_HOST) (default: localhost)
//
// The resolution priority is: command line flag > environment variable >
// hardcoded default.
//
// Groups are cached by title. Requesting an existing title returns the
// existing group, so independent bootstrap helpers can add flags to the same
// group without coordinating.
//
// Invalid wiring, like requesting environment fallback without a long flag
// name, is recorded as a ConfigurationError during registration and reported
// by Err and Parse. Malformed user input is reported as a UsageError.
package flagutil
