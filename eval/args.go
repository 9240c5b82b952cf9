package eval

var argsK = &argsKind{name: "args"}

// ArgsKind resolves a tag to its arguments: a list, or a mapping for
// mapping content. It is the kind of entries registered with just a
// callback.
func ArgsKind() Kind {
	return argsK
}

type argsKind struct {
	name
}

func (k *argsKind) Instance(opts Options) (Resolver, error) {
	return argsResolver{}, nil
}

type argsResolver struct{}

func (argsResolver) Resolve(t *Tag, _ *Context) (any, error) {
	return t.Args.Value(), nil
}
