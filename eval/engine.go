package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/tagload/debug"
	"github.com/signadot/tagload/ir"
)

// ResolveDocument resolves root bottom-up into a tree of plain values: nil,
// string, int64, uint64, float64, bool, time.Time, []any, *ir.Map, and the
// values of resolvers such as Path and URI. The arguments of a tag are
// resolved before the tag itself. root is never modified.
//
// When ctx.Root is nil, refs are looked up in root.
func ResolveDocument(root *ir.Node, ctx *Context) (any, error) {
	if root == nil {
		return nil, nil
	}
	p := newPass(ctx, root)
	return p.resolve(root)
}

// ResolveSubpath locates path in ctx.Root and resolves what it finds, tags
// included.
func ResolveSubpath(path ir.KPath, ctx *Context) (any, error) {
	p := newPass(ctx, nil)
	return p.subpath(path)
}

// pass is one resolution over a document. refs holds the ref targets
// being resolved, innermost last.
type pass struct {
	ctx  *Context
	refs []string
}

func newPass(ctx *Context, root *ir.Node) *pass {
	if ctx == nil {
		ctx = &Context{}
	}
	c := *ctx
	if c.Root == nil {
		c.Root = root
	}
	if c.Registry == nil {
		c.Registry = DefaultRegistry()
	}
	return &pass{ctx: &c}
}

func (p *pass) resolve(node *ir.Node) (any, error) {
	if node.Tag != "" {
		return p.resolveTag(node)
	}
	return p.resolveContent(node)
}

func (p *pass) resolveContent(node *ir.Node) (any, error) {
	switch node.Type {
	case ir.ObjectType:
		res := ir.NewMap(len(node.Keys))
		for i, k := range node.Keys {
			v, err := p.resolve(node.Values[i])
			if err != nil {
				return nil, err
			}
			res.Set(k, v)
		}
		return res, nil
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, item := range node.Values {
			v, err := p.resolve(item)
			if err != nil {
				return nil, err
			}
			res[i] = v
		}
		return res, nil
	default:
		return node.Value(), nil
	}
}

func (p *pass) resolveTag(node *ir.Node) (any, error) {
	content, err := p.resolveContent(node)
	if err != nil {
		return nil, err
	}
	entry, err := p.ctx.Registry.Lookup(node.Tag)
	if err != nil {
		return nil, tagError(node, err)
	}
	t := &Tag{
		Name:  node.Tag,
		Node:  node,
		Args:  argsOf(content),
		entry: entry,
		pass:  p,
	}
	if debug.Resolve() {
		debug.Logf("resolve %s with %s\n", t, entry)
	}
	res, err := entry.Resolve(t, p.ctx)
	if err != nil {
		return nil, tagError(node, err)
	}
	return res, nil
}

// tagError attributes err to node unless a nested tag already claimed it.
func tagError(node *ir.Node, err error) error {
	var te *Error
	if errors.As(err, &te) {
		return err
	}
	return &Error{Tag: node.Tag, Location: node.Location(), Err: err}
}

func (p *pass) subpath(path ir.KPath) (any, error) {
	key := path.String()
	for i, r := range p.refs {
		if r == key {
			chain := append(append([]string{}, p.refs[i:]...), key)
			return nil, fmt.Errorf("%w: %s", ErrCyclicReference, strings.Join(chain, " -> "))
		}
	}
	if p.ctx.Root == nil {
		return nil, fmt.Errorf("%w: %s (empty document)", ErrPathNotFound, path)
	}
	node, err := p.ctx.Root.GetKPath(path)
	if err != nil {
		return nil, err
	}
	if debug.Ref() {
		debug.Logf("ref %s (depth %d)\n", key, len(p.refs))
	}
	p.refs = append(p.refs, key)
	defer func() { p.refs = p.refs[:len(p.refs)-1] }()
	return p.resolve(node)
}
