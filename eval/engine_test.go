package eval

import (
	"errors"
	"strings"
	"testing"

	"github.com/signadot/tagload/ir"
	"github.com/signadot/tagload/parse"

	"github.com/google/go-cmp/cmp"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func parseDoc(t *testing.T, src string) *ir.Node {
	t.Helper()
	node, err := parse.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return node
}

func resolve(t *testing.T, src string, env map[string]string) (any, error) {
	t.Helper()
	return ResolveDocument(parseDoc(t, src), &Context{
		Registry:  DefaultRegistry(),
		LookupEnv: envMap(env),
	})
}

func TestPlainValues(t *testing.T) {
	src := `
name: app
port: 8080
ratio: 0.5
debug: false
nothing: null
list: [a, 1, [b]]
nested:
  x: {y: z}
`
	got, err := resolve(t, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := ir.MapOf(
		"name", "app",
		"port", int64(8080),
		"ratio", 0.5,
		"debug", false,
		"nothing", nil,
		"list", []any{"a", int64(1), []any{"b"}},
		"nested", ir.MapOf("x", ir.MapOf("y", "z")),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestBottomUp(t *testing.T) {
	var seen []any
	reg := DefaultRegistry()
	err := reg.Register("path", PathKind(), nil, func(tag *Tag, _ *Context) (any, error) {
		seen = append(seen, tag.Args.List...)
		return tag.Builtin()
	})
	if err != nil {
		t.Fatal(err)
	}
	node := parseDoc(t, "p: !path [!path [a, b], c]\n")
	got, err := ResolveDocument(node, &Context{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ir.MapOf("p", Path("a/b/c")), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	want := []any{"a", "b", Path("a/b"), "c"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("inner tag not resolved first (-want +got):\n%s", diff)
	}
}

func TestRefRoundTrip(t *testing.T) {
	src := `
base:
  url: https://foo.org
bar_url: !str/format
  - '%s/to/bar'
  - !ref [base, url]
`
	got, err := resolve(t, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := got.(*ir.Map).Dig("bar_url")
	if err != nil {
		t.Fatal(err)
	}
	if v != "https://foo.org/to/bar" {
		t.Errorf("got %v", v)
	}
}

func TestRefUnresolvedLeaf(t *testing.T) {
	src := `
base:
  host: !env HOST
  url: !str/format
    - 'https://%s'
    - !ref [base, host]
bar_url: !str/format
  - '%s/to/bar'
  - !ref [base, url]
`
	got, err := resolve(t, src, map[string]string{"HOST": "foo.org"})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := got.(*ir.Map).Dig("bar_url")
	if v != "https://foo.org/to/bar" {
		t.Errorf("got %v", v)
	}
}

func TestRefReevaluates(t *testing.T) {
	n := 0
	reg := DefaultRegistry()
	reg.RegisterFunc("count", func(*Tag, *Context) (any, error) {
		n++
		return int64(n), nil
	})
	node := parseDoc(t, "a: !count\nb: !ref [a]\nc: !ref [a]\n")
	got, err := ResolveDocument(node, &Context{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	want := ir.MapOf("a", int64(1), "b", int64(2), "c", int64(3))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRefIntoList(t *testing.T) {
	got, err := resolve(t, "hosts: [a.org, b.org]\nsecond: !ref [hosts, 1]\n", nil)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := got.(*ir.Map).Dig("second"); v != "b.org" {
		t.Errorf("got %v", v)
	}
}

func TestRefNotFound(t *testing.T) {
	_, err := resolve(t, "base: {url: x}\nu: !ref [base, uri]\n", nil)
	if !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(err.Error(), "base.uri") {
		t.Errorf("error does not name the path: %v", err)
	}
}

func TestRefCycle(t *testing.T) {
	tests := []string{
		"a: !ref [a]\n",
		"a: !ref [b]\nb: !ref [a]\n",
		"a:\n  b: !ref [a]\n",
		"a: !str/format ['%s', !ref [c]]\nc: [!ref [a]]\n",
	}
	for _, src := range tests {
		_, err := resolve(t, src, nil)
		if !errors.Is(err, ErrCyclicReference) {
			t.Errorf("%q: got %v", src, err)
		}
	}
}

func TestUnknownTag(t *testing.T) {
	_, err := resolve(t, "a: 1\nb: !nope x\n", nil)
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("got %v", err)
	}
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("got %T", err)
	}
	if te.Tag != "nope" || te.Location != "b (line 2)" {
		t.Errorf("got %q at %q", te.Tag, te.Location)
	}
}

func TestErrorInnermostTag(t *testing.T) {
	_, err := resolve(t, "u: !str/format ['%s', !env HOST]\n", nil)
	var te *Error
	if !errors.As(err, &te) {
		t.Fatalf("got %v", err)
	}
	if te.Tag != "env" || !strings.HasPrefix(te.Location, "u[1]") {
		t.Errorf("got %q at %q", te.Tag, te.Location)
	}
	if got := err.Error(); !strings.Contains(got, "HOST") {
		t.Errorf("error does not name the variable: %s", got)
	}
}

func TestTreeUnchanged(t *testing.T) {
	node := parseDoc(t, "a: !env [X, fb]\nb: !ref [a]\n")
	before := encodeNode(t, node)
	ctx := &Context{LookupEnv: envMap(nil)}
	for range 2 {
		if _, err := ResolveDocument(node, ctx); err != nil {
			t.Fatal(err)
		}
	}
	if after := encodeNode(t, node); after != before {
		t.Errorf("tree changed:\n%s\n%s", before, after)
	}
}

func TestResolveSubpath(t *testing.T) {
	node := parseDoc(t, "a:\n  b: !env [B, fallback]\n")
	got, err := ResolveSubpath(ir.KPath{"a"}, &Context{Root: node, LookupEnv: envMap(nil)})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ir.MapOf("b", "fallback"), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	_, err = ResolveSubpath(ir.KPath{"a", "c"}, &Context{Root: node})
	if !errors.Is(err, ErrPathNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestArgsShapes(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFunc("args", func(tag *Tag, _ *Context) (any, error) {
		return tag.Builtin()
	})
	node := parseDoc(t, `
scalar: !args x
list: !args [x, y]
map: !args {k: v}
empty: !args
`)
	got, err := ResolveDocument(node, &Context{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	want := ir.MapOf(
		"scalar", []any{"x"},
		"list", []any{"x", "y"},
		"map", ir.MapOf("k", "v"),
		"empty", []any{},
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestInlineCallback(t *testing.T) {
	reg := DefaultRegistry()
	reg.RegisterFunc("inc", func(tag *Tag, _ *Context) (any, error) {
		n, ok := tag.Args.List[0].(int64)
		if !ok {
			return nil, ErrBadArguments
		}
		return n + 1, nil
	})
	got, err := ResolveDocument(parseDoc(t, "port: !inc 1\n"), &Context{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ir.MapOf("port", int64(2)), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func encodeNode(t *testing.T, node *ir.Node) string {
	t.Helper()
	b := &strings.Builder{}
	if err := node.Visit(func(n *ir.Node, isPost bool) (bool, error) {
		if !isPost {
			b.WriteString(n.KPath().String() + " " + n.Tag + " " + n.Text + "\n")
		}
		return true, nil
	}); err != nil {
		t.Fatal(err)
	}
	return b.String()
}
