package eval

import (
	"fmt"
	"sort"
	"sync"
)

// Entry is a registered tag.
type Entry struct {
	Name    string
	Kind    Kind
	Options Options
	Func    Func

	resolver Resolver
}

func (e *Entry) Resolve(t *Tag, ctx *Context) (any, error) {
	if e.Func != nil {
		return e.Func(t, ctx)
	}
	return e.resolver.Resolve(t, ctx)
}

func (e *Entry) String() string {
	if e.Func != nil {
		return fmt.Sprintf("!%s (%s, func)", e.Name, e.Kind)
	}
	if len(e.Options) != 0 {
		return fmt.Sprintf("!%s (%s %v)", e.Name, e.Kind, map[string]any(e.Options))
	}
	return fmt.Sprintf("!%s (%s)", e.Name, e.Kind)
}

// Registry maps tag names to entries. The name of an optional variant
// includes its trailing '?'.
//
// Registration is expected before loads begin; the lock only keeps the map
// itself consistent.
type Registry struct {
	mu sync.RWMutex
	d  map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{d: map[string]*Entry{}}
}

// DefaultRegistry returns a registry holding the built-in tags.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Reset()
	return r
}

// Reset drops all entries and registers the built-in tags.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.d = map[string]*Entry{}
	r.mu.Unlock()
	for _, b := range builtins() {
		if err := r.Register(b.name, b.kind, b.opts, nil); err != nil {
			panic(err)
		}
	}
}

// Register adds or replaces the entry for name.
func (r *Registry) Register(name string, kind Kind, opts Options, fn Func) error {
	if kind == nil {
		kind = ArgsKind()
	}
	res, err := kind.Instance(opts)
	if err != nil {
		return fmt.Errorf("!%s: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.d[name] = &Entry{
		Name:     name,
		Kind:     kind,
		Options:  opts,
		Func:     fn,
		resolver: res,
	}
	return nil
}

// RegisterFunc registers an inline callback. Tag.Builtin then yields the
// tag's arguments.
func (r *Registry) RegisterFunc(name string, fn Func) error {
	return r.Register(name, ArgsKind(), nil, fn)
}

func (r *Registry) Lookup(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.d[name]
	if !ok {
		return nil, fmt.Errorf("%w !%s", ErrUnknownTag, name)
	}
	return e, nil
}

// Names returns the registered tag names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]string, 0, len(r.d))
	for n := range r.d {
		res = append(res, n)
	}
	sort.Strings(res)
	return res
}

// Entries returns the entries sorted by name.
func (r *Registry) Entries() []*Entry {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*Entry, 0, len(names))
	for _, n := range names {
		if e, ok := r.d[n]; ok {
			res = append(res, e)
		}
	}
	return res
}

type builtin struct {
	name string
	kind Kind
	opts Options
}

func builtins() []builtin {
	res := []builtin{
		{name: "path", kind: PathKind()},
		{name: "path/git_root", kind: PathRootKind(), opts: Options{"containing": ".git"}},
		{name: "path/rails_root", kind: PathRootKind(), opts: Options{"containing": "config.ru"}},
		{name: "uri", kind: URIKind()},
		{name: "str/format", kind: StrFormatKind()},
		{name: "ref", kind: RefKind()},
	}
	for _, coerce := range []string{"", "float", "integer", "bool"} {
		n := "env"
		var opts Options
		if coerce != "" {
			n += "/" + coerce
			opts = Options{"coerce": coerce}
		}
		res = append(res,
			builtin{name: n, kind: EnvKind(), opts: opts},
			builtin{name: n + "?", kind: EnvKind(), opts: opts})
	}
	return res
}
