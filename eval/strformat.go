package eval

import (
	"fmt"
)

var strFormatK = &strFormatKind{name: "str_format"}

// StrFormatKind formats a string printf style. List arguments are the
// template followed by positional values; mapping arguments hold the
// template under "fmt" and named values under the other keys.
func StrFormatKind() Kind {
	return strFormatK
}

type strFormatKind struct {
	name
}

func (k *strFormatKind) Instance(opts Options) (Resolver, error) {
	if err := checkOptions(k, opts); err != nil {
		return nil, err
	}
	return strFormatResolver{}, nil
}

type strFormatResolver struct{}

func (strFormatResolver) Resolve(t *Tag, _ *Context) (any, error) {
	if t.Args.IsMap() {
		named := t.Args.Map.Clone()
		tmpl, ok := named.Get("fmt")
		if !ok {
			return nil, fmt.Errorf("%w: missing key \"fmt\"", ErrBadArguments)
		}
		named.Delete("fmt")
		s, ok := tmpl.(string)
		if !ok {
			return nil, fmt.Errorf("%w: fmt must be a string, got %T", ErrBadArguments, tmpl)
		}
		return sprintf(s, nil, named)
	}
	if len(t.Args.List) == 0 {
		return nil, fmt.Errorf("%w: missing format template", ErrBadArguments)
	}
	s, ok := t.Args.List[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: template must be a string, got %T", ErrBadArguments, t.Args.List[0])
	}
	return sprintf(s, t.Args.List[1:], nil)
}
