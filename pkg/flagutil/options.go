package flagutil

import (
	"time"

	"github.com/spf13/pflag"
)

// Options is the resolved view of one parsed argument vector. It is immutable
// after Parse returns it.
type Options struct {
	fs          *pflag.FlagSet
	positionals map[string]string
	rest        []string
}

// GetString returns the resolved value of a string flag. Unknown names yield
// the zero value.
func (o *Options) GetString(name string) string {
	v, _ := o.fs.GetString(name)
	return v
}

// GetBool returns the resolved value of a boolean flag.
func (o *Options) GetBool(name string) bool {
	v, _ := o.fs.GetBool(name)
	return v
}

// GetInt returns the resolved value of an integer flag.
func (o *Options) GetInt(name string) int {
	v, _ := o.fs.GetInt(name)
	return v
}

// GetDuration returns the resolved value of a duration flag.
func (o *Options) GetDuration(name string) time.Duration {
	v, _ := o.fs.GetDuration(name)
	return v
}

// GetStringSlice returns the resolved value of a repeatable string flag.
func (o *Options) GetStringSlice(name string) []string {
	v, _ := o.fs.GetStringSlice(name)
	return v
}

// Positional returns the value bound to the named positional argument.
func (o *Options) Positional(name string) string {
	return o.positionals[name]
}

// Args returns the arguments left over after flags and declared positionals.
func (o *Options) Args() []string {
	return o.rest
}

// Visit exports all resolved values as a map of flag name to rendered value,
// including positionals. It is mainly useful for tests and debug output.
func (o *Options) Visit() map[string]string {
	values := map[string]string{}
	o.fs.VisitAll(func(f *pflag.Flag) {
		values[f.Name] = f.Value.String()
	})
	for name, value := range o.positionals {
		values[name] = value
	}
	return values
}
