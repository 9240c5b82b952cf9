package eval

import (
	"fmt"
	"sort"
)

// Options are the fixed construction options of a registry entry, such as
// the marker name of a path_root entry.
type Options map[string]any

func (o Options) String(key string) (string, bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, fmt.Errorf("%w: option %q must be a string, got %T", ErrBadOptions, key, v)
	}
	return s, true, nil
}

// Kind is a resolver kind: it builds the resolver of a registry entry from
// the entry's fixed options.
type Kind interface {
	String() string
	Instance(opts Options) (Resolver, error)
}

// Resolver computes the value of a tag occurrence from its resolved
// arguments.
type Resolver interface {
	Resolve(t *Tag, ctx *Context) (any, error)
}

// Func is an inline callback. It takes precedence over the logic of the
// entry's kind, which it may still call through Tag.Builtin.
type Func func(t *Tag, ctx *Context) (any, error)

func (f Func) Resolve(t *Tag, ctx *Context) (any, error) {
	return f(t, ctx)
}

type name string

func (s name) String() string {
	return string(s)
}

func checkOptions(k Kind, opts Options, allowed ...string) error {
outer:
	for key := range opts {
		for _, a := range allowed {
			if key == a {
				continue outer
			}
		}
		return fmt.Errorf("%w: %s does not take option %q", ErrBadOptions, k, key)
	}
	return nil
}

var kinds = map[string]Kind{}

func init() {
	for _, k := range []Kind{
		ArgsKind(),
		EnvKind(),
		PathKind(),
		PathRootKind(),
		URIKind(),
		StrFormatKind(),
		RefKind(),
		ExprKind(),
	} {
		kinds[k.String()] = k
	}
}

// LookupKind finds a resolver kind by name, for declarative registration.
func LookupKind(s string) (Kind, error) {
	k, ok := kinds[s]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Kinds lists the resolver kinds, sorted by name.
func Kinds() []Kind {
	res := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].String() < res[j].String()
	})
	return res
}
