package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/signadot/tagload/debug"
)

var envK = &envKind{name: "env"}

// EnvKind reads an environment variable. Its arguments are the variable
// name and an optional fallback. The option "coerce" (float, integer or
// bool) converts the value.
func EnvKind() Kind {
	return envK
}

type envKind struct {
	name
}

func (k *envKind) Instance(opts Options) (Resolver, error) {
	if err := checkOptions(k, opts, "coerce"); err != nil {
		return nil, err
	}
	c, _, err := opts.String("coerce")
	if err != nil {
		return nil, err
	}
	switch c {
	case "", "float", "integer", "bool":
	default:
		return nil, fmt.Errorf("%w: unknown coercion %q", ErrBadOptions, c)
	}
	return envResolver{coerce: c}, nil
}

type envResolver struct {
	coerce string
}

func (r envResolver) Resolve(t *Tag, ctx *Context) (any, error) {
	name, fallback, err := envArgs(t.Args)
	if err != nil {
		return nil, err
	}
	v, ok := ctx.lookupEnv(name)
	if debug.Env() {
		debug.Logf("env %s set=%t\n", name, ok)
	}
	if ok {
		return r.convert(name, v)
	}
	switch {
	case fallback != nil:
		if s, isStr := fallback.(string); isStr {
			return r.convert(name, s)
		}
		return fallback, nil
	case ctx.IsAllOptional():
		return r.convert(name, r.dryRunDefault())
	case t.Optional():
		if r.coerce == "bool" {
			return false, nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("%w %s", ErrMissingEnv, name)
}

func envArgs(a Args) (string, any, error) {
	if a.IsMap() {
		return "", nil, fmt.Errorf("%w: expected [name] or [name, fallback], got a mapping", ErrBadArguments)
	}
	if len(a.List) != 1 && len(a.List) != 2 {
		return "", nil, fmt.Errorf("%w: expected [name] or [name, fallback], got %d arguments", ErrBadArguments, len(a.List))
	}
	name, ok := a.List[0].(string)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("%w: variable name must be a non-empty string, got %v", ErrBadArguments, a.List[0])
	}
	var fallback any
	if len(a.List) == 2 {
		fallback = a.List[1]
	}
	return name, fallback, nil
}

func (r envResolver) dryRunDefault() string {
	switch r.coerce {
	case "integer":
		return "999"
	case "float":
		return "999.0"
	case "bool":
		return "false"
	}
	return ""
}

func (r envResolver) convert(name, v string) (any, error) {
	switch r.coerce {
	case "float":
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a float", ErrInvalidNumeric, name, v)
		}
		return f, nil
	case "integer":
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidNumeric, name, v)
		}
		return i, nil
	case "bool":
		b, err := ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidBool, name, err)
		}
		return b, nil
	}
	return v, nil
}

// ParseBool accepts y, yes, true and on as true and n, no, false and off
// as false, ignoring case.
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true", "on":
		return true, nil
	case "n", "no", "false", "off":
		return false, nil
	}
	return false, fmt.Errorf("should be one of y(es)/n(o), on/off, true/false (got %q)", v)
}
