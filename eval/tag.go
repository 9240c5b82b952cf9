package eval

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/signadot/tagload/ir"
)

// Args are the resolved arguments of a tag. Exactly one of List and Map is
// set: mapping content gives Map, anything else gives List, with a bare
// scalar as its only element and null content as no elements.
type Args struct {
	List []any
	Map  *ir.Map
}

func argsOf(content any) Args {
	switch x := content.(type) {
	case *ir.Map:
		return Args{Map: x}
	case []any:
		return Args{List: x}
	case nil:
		return Args{List: []any{}}
	default:
		return Args{List: []any{x}}
	}
}

func (a Args) IsMap() bool {
	return a.Map != nil
}

func (a Args) Len() int {
	if a.Map != nil {
		return a.Map.Len()
	}
	return len(a.List)
}

// Value returns the arguments as a resolved value.
func (a Args) Value() any {
	if a.Map != nil {
		return a.Map
	}
	return a.List
}

// Strings requires list arguments made of scalars and returns them
// stringified.
func (a Args) Strings() ([]string, error) {
	if a.Map != nil {
		return nil, fmt.Errorf("%w: expected a list, got a mapping", ErrBadArguments)
	}
	res := make([]string, len(a.List))
	for i, v := range a.List {
		s, err := Stringify(v)
		if err != nil {
			return nil, fmt.Errorf("%w: argument %d: %w", ErrBadArguments, i, err)
		}
		res[i] = s
	}
	return res, nil
}

// Stringify renders a scalar resolved value as text. Containers are
// refused.
func Stringify(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	case time.Time:
		return x.Format(time.RFC3339Nano), nil
	case *ir.Map, []any:
		return "", fmt.Errorf("%T is not a scalar", v)
	case fmt.Stringer:
		return x.String(), nil
	}
	return "", fmt.Errorf("%T is not a scalar", v)
}

// Tag is the view of one tag occurrence given to resolvers.
type Tag struct {
	// Name includes any trailing '?'.
	Name string
	// Node is the unresolved tagged node.
	Node *ir.Node
	Args Args

	entry *Entry
	pass  *pass
}

// Optional reports whether the tag name marks an optional variant.
func (t *Tag) Optional() bool {
	return strings.HasSuffix(t.Name, "?")
}

func (t *Tag) Options() Options {
	return t.entry.Options
}

// Builtin runs the logic of the entry's kind, ignoring any inline
// callback.
func (t *Tag) Builtin() (any, error) {
	return t.entry.resolver.Resolve(t, t.pass.ctx)
}

// Resolve resolves the document at path, as a ref would.
func (t *Tag) Resolve(path ir.KPath) (any, error) {
	return t.pass.subpath(path)
}

func (t *Tag) String() string {
	return fmt.Sprintf("!%s at %s", t.Name, t.Node.Location())
}
