package main

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/signadot/tagload"
	"github.com/signadot/tagload/ir"

	"github.com/evanphx/json-patch"
	"github.com/google/go-cmp/cmp"
	"github.com/scott-cotton/cli"
	"github.com/spf13/afero"
)

func TestWriteDiff(t *testing.T) {
	before := "a: 1\nhost: !env HOST\nport: 80\n"
	after := "a: 1\nhost: example.org\nport: 80\n"
	b := &strings.Builder{}
	if err := writeDiff(b, lineDiff(before, after), false); err != nil {
		t.Fatal(err)
	}
	want := " a: 1\n-host: !env HOST\n+host: example.org\n port: 80\n"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestApplyPatch(t *testing.T) {
	p, err := jsonpatch.DecodePatch([]byte(`[
		{"op": "replace", "path": "/db/host", "value": "localhost"},
		{"op": "add", "path": "/ports/-", "value": 8081},
		{"op": "remove", "path": "/debug"}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	v := ir.MapOf(
		"db", ir.MapOf("host", "db.example.org"),
		"ports", []any{int64(8080)},
		"debug", true,
	)
	got, err := applyPatch(p, v)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := got.(*ir.Map)
	if !ok {
		t.Fatalf("got %T", got)
	}
	if h, _ := m.Dig("db", "host"); h != "localhost" {
		t.Errorf("db.host: got %v", h)
	}
	if ports, _ := m.Dig("ports"); !cmp.Equal(ports, []any{int64(8080), int64(8081)}) {
		t.Errorf("ports: got %v", ports)
	}
	if _, err := m.Dig("debug"); err == nil {
		t.Errorf("debug not removed")
	}
}

func TestFileArgs(t *testing.T) {
	if diff := cmp.Diff([]string{"-"}, fileArgs(nil)); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]string{"a.yml"}, fileArgs([]string{"a.yml"})); diff != "" {
		t.Error(diff)
	}
}

func TestReadArg(t *testing.T) {
	l := tagload.New()
	l.Fs = afero.NewMemMapFs()
	if err := l.Fs.MkdirAll("/etc", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(l.Fs, "/etc/app.yml", []byte("a: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cc := &cli.Context{In: io.NopCloser(strings.NewReader("b: 2\n"))}

	d, src, err := readArg(cc, l, "/etc/app.yml")
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != "a: 1\n" || src != "/etc/app.yml" {
		t.Errorf("got %q from %q", d, src)
	}

	d, src, err = readArg(cc, l, "-")
	if err != nil {
		t.Fatal(err)
	}
	if string(d) != "b: 2\n" || src != "" {
		t.Errorf("got %q from %q", d, src)
	}

	if _, _, err := readArg(cc, l, "/etc/missing.yml"); !errors.Is(err, tagload.ErrFileNotFound) {
		t.Errorf("got %v", err)
	}
	if _, err := readPatch(cc, l, "/etc/missing.json"); !errors.Is(err, tagload.ErrFileNotFound) {
		t.Errorf("got %v", err)
	}
}
