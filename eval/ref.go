package eval

import (
	"fmt"

	"github.com/signadot/tagload/ir"
)

var refK = &refKind{name: "ref"}

// RefKind resolves another location of the document, given as a list of
// keys and indices from the document root. The target is resolved on
// demand, so it may itself hold tags.
func RefKind() Kind {
	return refK
}

type refKind struct {
	name
}

func (k *refKind) Instance(opts Options) (Resolver, error) {
	if err := checkOptions(k, opts); err != nil {
		return nil, err
	}
	return refResolver{}, nil
}

type refResolver struct{}

func (refResolver) Resolve(t *Tag, _ *Context) (any, error) {
	segs, err := t.Args.Strings()
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrBadArguments)
	}
	return t.Resolve(ir.KPath(segs))
}
