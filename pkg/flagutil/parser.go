package flagutil

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// EnvFunc looks up an environment variable. It exists so tests can substitute
// a fake environment without mutating the real process environment.
type EnvFunc func(key string) (string, bool)

// Parser collects argument groups and parses one argument vector into
// resolved options. It is configured once during single-threaded startup and
// provides no concurrency guarantees.
type Parser struct {
	fs          *pflag.FlagSet
	env         EnvFunc
	groups      []*Group
	byTitle     map[string]*Group
	choices     map[string][]string
	positionals []positional
	errs        []error
}

type positional struct {
	name string
	help string
	ptr  *string
}

// Option modifies a Parser on construction.
type Option func(*Parser)

// WithEnv replaces the environment lookup used for flag default fallback.
// The default is os.LookupEnv.
func WithEnv(env EnvFunc) Option {
	return func(p *Parser) {
		p.env = env
	}
}

// New creates a Parser with its own flag set.
func New(name string, opts ...Option) *Parser {
	return Wrap(pflag.NewFlagSet(name, pflag.ContinueOnError), opts...)
}

// Wrap creates a Parser on top of an existing flag set. This is used to add
// argument groups to the flags of a cobra command.
func Wrap(fs *pflag.FlagSet, opts ...Option) *Parser {
	p := &Parser{
		fs:      fs,
		env:     os.LookupEnv,
		byTitle: map[string]*Group{},
		choices: map[string][]string{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// FlagSet exposes the underlying flag set.
func (p *Parser) FlagSet() *pflag.FlagSet {
	return p.fs
}

// Group returns the argument group with the given title, creating it first if
// it does not exist yet. The title is the cache key; a second call with the
// same title returns the identical group and ignores the given options.
func (p *Parser) Group(title string, opts ...GroupOption) *Group {
	if group, ok := p.byTitle[title]; ok {
		return group
	}

	group := &Group{
		parser:    p,
		title:     title,
		envPrefix: title + "_",
	}

	for _, opt := range opts {
		opt(group)
	}

	p.groups = append(p.groups, group)
	p.byTitle[title] = group
	return group
}

// Groups returns the registered groups in registration order.
func (p *Parser) Groups() []*Group {
	return slices.Clone(p.groups)
}

// Err reports configuration errors that were recorded while registering
// flags. Parse refuses to run while Err is non-nil.
func (p *Parser) Err() error {
	return errors.Join(p.errs...)
}

// Parse parses the given argument vector into resolved options. Passing nil
// parses the live process arguments; tests should always pass an explicit
// vector. Malformed input is reported as a *UsageError.
func (p *Parser) Parse(argv []string) (*Options, error) {
	if err := p.Err(); err != nil {
		return nil, err
	}

	if argv == nil {
		argv = os.Args[1:]
	}

	if err := p.fs.Parse(argv); err != nil {
		return nil, &UsageError{Err: err}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	rest := p.fs.Args()
	positionals := map[string]string{}

	for i, spec := range p.positionals {
		if i >= len(rest) {
			return nil, &UsageError{Err: fmt.Errorf("missing required argument %q", spec.name)}
		}

		positionals[spec.name] = rest[i]
		if spec.ptr != nil {
			*spec.ptr = rest[i]
		}
	}

	if n := len(p.positionals); n < len(rest) {
		rest = slices.Clone(rest[n:])
	} else {
		rest = nil
	}

	return &Options{
		fs:          p.fs,
		positionals: positionals,
		rest:        rest,
	}, nil
}

// Validate checks constraints that pflag does not know about, currently the
// choice lists. It runs as part of Parse; cobra-based applications call it
// from their PreRun, because cobra drives the flag set itself.
func (p *Parser) Validate() error {
	for name, choices := range p.choices {
		value, err := p.fs.GetString(name)
		if err != nil {
			continue
		}

		if !slices.Contains(choices, value) {
			return &UsageError{Err: fmt.Errorf(
				"invalid value %q for --%s (choose from: %s)",
				value, name, strings.Join(choices, ", "))}
		}
	}

	return nil
}

// Usage returns the generated help text for all registered flags.
func (p *Parser) Usage() string {
	return p.fs.FlagUsages()
}

func (p *Parser) fail(flag, reason string) {
	p.errs = append(p.errs, &ConfigurationError{Flag: flag, Reason: reason})
}
