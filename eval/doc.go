// Package eval resolves tagged documents.
//
// A Registry maps tag names to entries. An entry has a resolver Kind built
// from fixed Options, and optionally an inline Func that replaces the
// kind's logic:
//
//	reg := eval.DefaultRegistry()
//	reg.RegisterFunc("inc", func(t *eval.Tag, _ *eval.Context) (any, error) {
//		n, ok := t.Args.List[0].(int64)
//		if !ok {
//			return nil, fmt.Errorf("!inc wants an integer")
//		}
//		return n + 1, nil
//	})
//	v, err := eval.ResolveDocument(node, &eval.Context{Registry: reg})
//
// Resolution is bottom-up: the content of a tag is resolved first and
// handed to the resolver as Args. The ref kind resolves other parts of
// Context.Root on demand and fails with ErrCyclicReference when a ref
// reaches itself again.
//
// The default registry holds:
//
//	env, env?                 environment variable, required or optional
//	env/float, env/float?     ... parsed as a float
//	env/integer, env/integer? ... parsed as an integer
//	env/bool, env/bool?       ... parsed as y/yes/true/on or n/no/false/off
//	path                      joined path segments
//	path/git_root             closest ancestor containing .git
//	path/rails_root           closest ancestor containing config.ru
//	uri                       URI from fragments, or {base, path}
//	str/format                printf style formatting
//	ref                       value at another location of the document
package eval
