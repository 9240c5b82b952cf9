package eval

import (
	"fmt"

	"github.com/signadot/tagload/ir"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var exprK = &exprKind{name: "expr"}

// ExprKind evaluates the expr-lang program in the option "expr". The
// program sees name, args (list arguments), kwargs (mapping arguments),
// options and source, and may call getenv(name), ref(key, ...) and whereami().
func ExprKind() Kind {
	return exprK
}

type exprKind struct {
	name
}

func (k *exprKind) Instance(opts Options) (Resolver, error) {
	src, ok, err := opts.String("expr")
	if err != nil {
		return nil, err
	}
	if !ok || src == "" {
		return nil, fmt.Errorf("%w: %s requires option \"expr\"", ErrBadOptions, k)
	}
	if _, err := compileExpr(src, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadOptions, err)
	}
	return exprResolver{src: src}, nil
}

type exprResolver struct {
	src string
}

func (r exprResolver) Resolve(t *Tag, ctx *Context) (any, error) {
	prg, err := compileExpr(r.src, t)
	if err != nil {
		return nil, err
	}
	return expr.Run(prg, exprEnv(t, ctx))
}

func compileExpr(src string, t *Tag) (*vm.Program, error) {
	return expr.Compile(src, append([]expr.Option{expr.Env(exprEnv(nil, nil))}, exprOpts(t)...)...)
}

func exprEnv(t *Tag, ctx *Context) map[string]any {
	env := map[string]any{
		"name":    "",
		"args":    []any{},
		"kwargs":  map[string]any{},
		"options": map[string]any{},
		"source":  "",
	}
	if t == nil {
		return env
	}
	env["name"] = t.Name
	env["source"] = ctx.Source
	if t.Args.IsMap() {
		env["kwargs"] = plain(t.Args.Map)
	} else {
		env["args"] = plain(t.Args.List)
	}
	opts := map[string]any{}
	for k, v := range t.Options() {
		opts[k] = v
	}
	env["options"] = opts
	return env
}

func exprOpts(t *Tag) []expr.Option {
	return []expr.Option{
		expr.Function("whereami", func(params ...any) (any, error) {
			if t == nil {
				return "", nil
			}
			return t.Node.Location(), nil
		},
			new(func() string)),
		expr.Function("getenv", func(params ...any) (any, error) {
			if t == nil {
				return "", nil
			}
			v, _ := t.pass.ctx.lookupEnv(params[0].(string))
			return v, nil
		},
			new(func(string) string)),
		expr.Function("ref", func(params ...any) (any, error) {
			if t == nil {
				return nil, nil
			}
			p := make(ir.KPath, len(params))
			for i, param := range params {
				s, err := Stringify(param)
				if err != nil {
					return nil, err
				}
				p[i] = s
			}
			v, err := t.Resolve(p)
			if err != nil {
				return nil, err
			}
			return plain(v), nil
		}),
	}
}

// plain converts ordered maps to Go maps so programs can index them.
func plain(v any) any {
	switch x := v.(type) {
	case *ir.Map:
		res := make(map[string]any, x.Len())
		for k, vv := range x.All() {
			res[string(k)] = plain(vv)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, vv := range x {
			res[i] = plain(vv)
		}
		return res
	}
	return v
}
