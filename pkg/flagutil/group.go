package flagutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Group is a named set of flags that share an environment variable prefix.
// Groups are created via Parser.Group.
type Group struct {
	parser    *Parser
	title     string
	envPrefix string
}

// GroupOption modifies a Group on creation. Options are ignored when
// Parser.Group hits the cache.
type GroupOption func(*Group)

// WithEnvPrefix sets an explicit environment variable prefix instead of the
// group title.
func WithEnvPrefix(prefix string) GroupOption {
	return func(g *Group) {
		g.envPrefix = prefix + "_"
	}
}

// WithoutEnvPrefix derives environment keys from the bare flag names.
func WithoutEnvPrefix() GroupOption {
	return func(g *Group) {
		g.envPrefix = ""
	}
}

// Title returns the group title.
func (g *Group) Title() string {
	return g.title
}

// Spec declares one flag. The zero value gives a regular optional flag with
// environment fallback derived from the group prefix and the flag name.
type Spec struct {
	// Name is the long flag name without prefix dashes, eg "log-level".
	Name string

	// Shorthand is an optional one-letter alias.
	Shorthand string

	// EnvVar overrides the derived environment variable key.
	EnvVar string

	// NoEnv disables the environment variable fallback.
	NoEnv bool

	// NoEnvHelp suppresses the "(env: KEY)" help suffix.
	NoEnvHelp bool

	// NoDefaultHelp suppresses the "(default: VALUE)" help suffix.
	NoDefaultHelp bool

	// Choices restricts the accepted values of a string flag. Violations are
	// reported as usage errors at parse time.
	Choices []string

	// Positional registers a required positional argument instead of a flag.
	// Positional arguments are plain strings and bypass the environment
	// fallback and help augmentation.
	Positional bool
}

// StringVar registers a string flag with 3-tier default resolution: explicit
// value < environment variable < flag on the command line.
func (g *Group) StringVar(p *string, spec Spec, def string, help string) {
	if spec.Positional {
		g.parser.positionals = append(g.parser.positionals, positional{
			name: spec.Name,
			help: help,
			ptr:  p,
		})
		return
	}

	if !g.checkName(spec) {
		return
	}

	envValue, fromEnv, help := g.prepare(spec, def, help)
	if fromEnv {
		def = envValue
	}

	g.parser.fs.StringVarP(p, spec.Name, spec.Shorthand, def, help)

	if len(spec.Choices) > 0 {
		g.parser.choices[spec.Name] = spec.Choices
	}
}

// String is like StringVar, but allocates the target itself.
func (g *Group) String(spec Spec, def string, help string) *string {
	p := new(string)
	g.StringVar(p, spec, def, help)
	return p
}

// BoolVar registers a boolean flag. An environment value must parse with
// strconv.ParseBool.
func (g *Group) BoolVar(p *bool, spec Spec, def bool, help string) {
	if !g.checkFlagSpec(spec) {
		return
	}

	envValue, fromEnv, help := g.prepare(spec, def, help)
	if fromEnv {
		parsed, err := strconv.ParseBool(envValue)
		if err != nil {
			g.parser.fail(spec.Name, fmt.Sprintf("invalid boolean %q in environment", envValue))
			return
		}
		def = parsed
	}

	g.parser.fs.BoolVarP(p, spec.Name, spec.Shorthand, def, help)
}

// Bool is like BoolVar, but allocates the target itself.
func (g *Group) Bool(spec Spec, def bool, help string) *bool {
	p := new(bool)
	g.BoolVar(p, spec, def, help)
	return p
}

// IntVar registers an integer flag.
func (g *Group) IntVar(p *int, spec Spec, def int, help string) {
	if !g.checkFlagSpec(spec) {
		return
	}

	envValue, fromEnv, help := g.prepare(spec, def, help)
	if fromEnv {
		parsed, err := strconv.Atoi(envValue)
		if err != nil {
			g.parser.fail(spec.Name, fmt.Sprintf("invalid integer %q in environment", envValue))
			return
		}
		def = parsed
	}

	g.parser.fs.IntVarP(p, spec.Name, spec.Shorthand, def, help)
}

// Int is like IntVar, but allocates the target itself.
func (g *Group) Int(spec Spec, def int, help string) *int {
	p := new(int)
	g.IntVar(p, spec, def, help)
	return p
}

// DurationVar registers a duration flag. An environment value must parse
// with time.ParseDuration.
func (g *Group) DurationVar(p *time.Duration, spec Spec, def time.Duration, help string) {
	if !g.checkFlagSpec(spec) {
		return
	}

	envValue, fromEnv, help := g.prepare(spec, def, help)
	if fromEnv {
		parsed, err := time.ParseDuration(envValue)
		if err != nil {
			g.parser.fail(spec.Name, fmt.Sprintf("invalid duration %q in environment", envValue))
			return
		}
		def = parsed
	}

	g.parser.fs.DurationVarP(p, spec.Name, spec.Shorthand, def, help)
}

// Duration is like DurationVar, but allocates the target itself.
func (g *Group) Duration(spec Spec, def time.Duration, help string) *time.Duration {
	p := new(time.Duration)
	g.DurationVar(p, spec, def, help)
	return p
}

// StringSliceVar registers a repeatable string flag. An environment value is
// split on commas.
func (g *Group) StringSliceVar(p *[]string, spec Spec, def []string, help string) {
	if !g.checkFlagSpec(spec) {
		return
	}

	envValue, fromEnv, help := g.prepare(spec, def, help)
	if fromEnv {
		def = strings.Split(envValue, ",")
	}

	g.parser.fs.StringSliceVarP(p, spec.Name, spec.Shorthand, def, help)
}

func (g *Group) checkFlagSpec(spec Spec) bool {
	if spec.Positional {
		g.parser.fail(spec.Name, "positional arguments must be strings")
		return false
	}
	return g.checkName(spec)
}

func (g *Group) checkName(spec Spec) bool {
	if spec.Name != "" {
		return true
	}

	if spec.NoEnv {
		g.parser.fail("", "a long flag name is required")
	} else {
		g.parser.fail("",
			"either disable the environment variable fallback or provide a long flag name")
	}

	return false
}

// prepare resolves the environment fallback and builds the final help text.
// It records configuration errors on the parser instead of returning them,
// so registration call sites stay linear.
func (g *Group) prepare(spec Spec, def any, help string) (envValue string, fromEnv bool, outHelp string) {
	parts := []string{}
	if help != "" {
		parts = append(parts, help)
	}

	if !spec.NoEnv {
		key, ok := g.envKey(spec)
		if !ok {
			return "", false, help
		}

		if value, found := g.parser.env(key); found {
			envValue = value
			fromEnv = true
		}

		if !spec.NoEnvHelp {
			parts = append(parts, fmt.Sprintf("(env: %s)", key))
		}
	}

	// The default shown in the help text is the caller-supplied one on
	// purpose, even when the environment overrides it. Surprising, but
	// long-standing behavior that callers rely on.
	if !spec.NoDefaultHelp && !strings.Contains(help, "(default: ") {
		parts = append(parts, fmt.Sprintf("(default: %v)", def))
	}

	return envValue, fromEnv, strings.Join(parts, " ")
}

func (g *Group) envKey(spec Spec) (string, bool) {
	if spec.EnvVar != "" {
		return spec.EnvVar, true
	}

	key := strings.ToUpper(strings.ReplaceAll(g.envPrefix+spec.Name, "-", "_"))
	if strings.Trim(key, "_") == "" {
		g.parser.fail(spec.Name, "flag name does not yield a usable environment key")
		return "", false
	}

	return key, true
}
