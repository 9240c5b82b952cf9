package parse

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/signadot/tagload/encode"
	"github.com/signadot/tagload/ir"
)

type parseTest struct {
	in  string
	out string
}

// encodes parse output back to yaml; tags and key order must survive.
func TestParseOK(t *testing.T) {
	pts := []parseTest{
		{in: "null", out: "null"},
		{in: "true", out: "true"},
		{in: "22", out: "22"},
		{in: "1.50", out: "1.50"},
		{in: `"hello"`, out: "hello"},
		{in: "hello", out: "hello"},
		{in: "|\n  z\n", out: `"z\n"`},
		{in: "[a, b]", out: "- a\n- b"},
		{in: "[]", out: "[]"},
		{in: "{}", out: "{}"},
		{in: "b: 1\na: 2", out: "b: 1\na: 2"},
		{in: "host: !env HOST", out: "host: !env HOST"},
		{in: "host: !env? HOST", out: "host: !env? HOST"},
		{
			in:  "url: !str/format ['%s/to/bar', !ref [base, url]]",
			out: "url: !str/format\n  - \"%s/to/bar\"\n  - !ref\n    - base\n    - url",
		},
		{
			in:  "url: !str/format\n  fmt: 'https://%<host>s/foo'\n  host: !env HOST\n",
			out: "url: !str/format\n  fmt: https://%<host>s/foo\n  host: !env HOST",
		},
		{in: "root: !path/git_root", out: "root: !path/git_root null"},
		{in: "a: !!str 12", out: `a: "12"`},
		{in: "a: !!int '12'", out: "a: 12"},
		{in: "1: a\n\"2\": b", out: "\"1\": a\n\"2\": b"},
	}
	for i, pt := range pts {
		node, err := Parse([]byte(pt.in))
		if err != nil {
			t.Errorf("%d %q: %v", i, pt.in, err)
			continue
		}
		got := strings.TrimSpace(encodeNode(t, node))
		if got != pt.out {
			t.Errorf("%d %q: got\n%s\nwant\n%s", i, pt.in, got, pt.out)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "---\n", "# just a comment\n"} {
		node, err := Parse([]byte(in))
		if err != nil {
			t.Errorf("%q: %v", in, err)
			continue
		}
		if node != nil && node.Type != ir.NullType {
			t.Errorf("%q: got %s", in, node.Type)
		}
	}
}

func TestParseEmptyTags(t *testing.T) {
	tests := []struct {
		in   string
		out  string
		tags map[string]string
	}{
		{
			in:   "a: !count\nb: !ref [a]\n",
			out:  "a: !count null\nb: !ref\n  - a",
			tags: map[string]string{"a": "count", "b": "ref"},
		},
		{
			in:   "root: !path/git_root\nlog: !path/git_root [log, app.log]\n",
			out:  "root: !path/git_root null\nlog: !path/git_root\n  - log\n  - app.log",
			tags: map[string]string{"root": "path/git_root", "log": "path/git_root"},
		},
		{
			in:   "a: !here",
			out:  "a: !here null",
			tags: map[string]string{"a": "here"},
		},
		{
			in:   "a: &x !here # note\n\nb: *x\n",
			out:  "a: !here null\nb: !here null",
			tags: map[string]string{"a": "here", "b": "here"},
		},
		{
			in:  "s:\n- !env\n- !env? HOST\n",
			out: "s:\n  - !env null\n  - !env? HOST",
		},
		{
			in:   "a:\n  b: !count\n  c: 1\nd: !count\n",
			out:  "a:\n  b: !count null\n  c: 1\nd: !count null",
			tags: map[string]string{"d": "count"},
		},
		{
			in:   "a: !t\n  b: 1\n",
			out:  "a: !t\n  b: 1",
			tags: map[string]string{"a": "t"},
		},
	}
	for _, tc := range tests {
		node, err := Parse([]byte(tc.in))
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if got := strings.TrimSpace(encodeNode(t, node)); got != tc.out {
			t.Errorf("%q: got\n%s\nwant\n%s", tc.in, got, tc.out)
		}
		for k, tag := range tc.tags {
			if got := ir.Get(node, ir.Key(k)).Tag; got != tag {
				t.Errorf("%q: %s tag %q want %q", tc.in, k, got, tag)
			}
		}
	}
}

func TestParseLoneTag(t *testing.T) {
	for _, in := range []string{"!env", "!path/git_root\n", "--- !env\n"} {
		node, err := Parse([]byte(in))
		if err != nil {
			t.Errorf("%q: %v", in, err)
			continue
		}
		if node == nil {
			t.Errorf("%q: nil document", in)
			continue
		}
		if node.Type != ir.NullType || node.Tag == "" {
			t.Errorf("%q: got %s tag %q", in, node.Type, node.Tag)
		}
	}
}

func TestParseTaggedScalars(t *testing.T) {
	node, err := Parse([]byte("i: !inc 1\nf: !inc 1.5\nb: !not true\nn: !x ~\nq: !x '1'\ns: !env HOST\nh: !inc 0x10\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"i": int64(1),
		"f": 1.5,
		"b": true,
		"n": nil,
		"q": "1",
		"s": "HOST",
		"h": int64(16),
	}
	for k, v := range want {
		if got := ir.Get(node, ir.Key(k)).Value(); got != v {
			t.Errorf("%s: got %#v want %#v", k, got, v)
		}
	}
}

func TestParseScalarKeys(t *testing.T) {
	node, err := Parse([]byte("True: a\n1.0: b\n0x10: c\n2: d\n"))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []ir.Key{"true", "1", "16", "2"} {
		if ir.Get(node, k) == nil {
			t.Errorf("missing key %q in %v", k, node.Keys)
		}
	}
}

func TestParseFirstDocument(t *testing.T) {
	node, err := Parse([]byte("a: 1\n---\nb: 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(encodeNode(t, node)); got != "a: 1" {
		t.Errorf("got %q", got)
	}
}

func TestParseMergeKeys(t *testing.T) {
	in := `
default: &default
  a: 1
  b: 0
dev:
  <<: *default
  b: 2
prod:
  b: 3
`
	node, err := Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	dev, err := node.GetKPath(ir.KPath{"dev"})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(encodeNode(t, dev)); got != "a: 1\nb: 2" {
		t.Errorf("got %q", got)
	}
	a := ir.Get(dev, "a")
	if a.Parent != dev {
		t.Errorf("merged value not reparented")
	}
	if got := a.KPath().String(); got != "dev.a" {
		t.Errorf("got path %q", got)
	}
}

func TestParseAlias(t *testing.T) {
	node, err := Parse([]byte("x: &h !env HOST\ny: *h\n"))
	if err != nil {
		t.Fatal(err)
	}
	y := ir.Get(node, "y")
	if y.Tag != "env" || y.String != "HOST" {
		t.Errorf("got %s %q", y.Tag, y.String)
	}
	if y == ir.Get(node, "x") {
		t.Errorf("alias shares node with anchor")
	}
}

func TestParsePositions(t *testing.T) {
	node, err := Parse([]byte("a:\n  b: !env B\n"))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := node.GetKPath(ir.KPath{"a", "b"})
	if b.Line != 2 {
		t.Errorf("got line %d", b.Line)
	}
	if got := b.Location(); got != "a.b (line 2)" {
		t.Errorf("got %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	in := []byte("created_at: 2010-02-11 11:02:57\nday: 2010-02-11\nquoted: '2010-02-11'\n")
	node, err := Parse(in)
	if err != nil {
		t.Fatal(err)
	}
	if c := ir.Get(node, "created_at"); c.Type != ir.StringType {
		t.Errorf("untrusted timestamp parsed as %s", c.Type)
	}
	node, err = Parse(in, Trust("timestamp"))
	if err != nil {
		t.Fatal(err)
	}
	c := ir.Get(node, "created_at")
	if c.Type != ir.TimeType {
		t.Fatalf("got %s", c.Type)
	}
	want := time.Date(2010, 2, 11, 11, 2, 57, 0, time.UTC)
	if !c.Time.Equal(want) {
		t.Errorf("got %s want %s", c.Time, want)
	}
	if d := ir.Get(node, "day"); d.Type != ir.TimeType {
		t.Errorf("day: got %s", d.Type)
	}
	if q := ir.Get(node, "quoted"); q.Type != ir.StringType {
		t.Errorf("quoted: got %s", q.Type)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in string
		e  error
	}{
		{in: "a: [", e: ErrParse},
		{in: "a: *nope", e: ErrParse},
		{in: "a: !!int x", e: ErrCoreTag},
		{in: "a:\n  <<: [1]\n", e: ErrMerge},
	}
	for _, tc := range tests {
		_, err := Parse([]byte(tc.in))
		if !errors.Is(err, tc.e) {
			t.Errorf("%q: got %v want %v", tc.in, err, tc.e)
		}
	}
}

func TestCheckTrusted(t *testing.T) {
	if err := CheckTrusted("timestamp"); err != nil {
		t.Error(err)
	}
	if err := CheckTrusted("Symbol"); !errors.Is(err, ErrUntrustedType) {
		t.Errorf("got %v", err)
	}
}

func encodeNode(t *testing.T, node *ir.Node) string {
	t.Helper()
	b := &strings.Builder{}
	if err := encode.EncodeNode(node, b); err != nil {
		t.Fatal(err)
	}
	return b.String()
}
