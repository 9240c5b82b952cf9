package eval

import (
	"errors"
	"testing"

	"github.com/signadot/tagload/ir"
)

type sprintfTest struct {
	fmt   string
	args  []any
	named *ir.Map
	out   string
	err   error
}

func TestSprintf(t *testing.T) {
	tests := []sprintfTest{
		{fmt: "%s/to/bar", args: []any{"https://foo.org"}, out: "https://foo.org/to/bar"},
		{fmt: "%.6d", args: []any{int64(1200)}, out: "001200"},
		{fmt: "%05d|%-5d|%+d", args: []any{int64(42), int64(42), int64(42)}, out: "00042|42   |+42"},
		{fmt: "%d", args: []any{"12"}, out: "12"},
		{fmt: "%d", args: []any{1.9}, out: "1"},
		{fmt: "%d", args: []any{-3.5}, out: "-3"},
		{fmt: "%i %u", args: []any{int64(-3), int64(3)}, out: "-3 3"},
		{fmt: "%.2f", args: []any{3.14159}, out: "3.14"},
		{fmt: "%f", args: []any{int64(1)}, out: "1.000000"},
		{fmt: "%e", args: []any{1234.5}, out: "1.234500e+03"},
		{fmt: "%g %g", args: []any{1234567.0, 0.5}, out: "1.23457e+06 0.5"},
		{fmt: "%x %X %#x %o %b %#B", args: []any{int64(255), int64(255), int64(255), int64(8), int64(5), int64(5)}, out: "ff FF 0xff 10 101 0B101"},
		{fmt: "%c%c", args: []any{int64(65), "bc"}, out: "Ab"},
		{fmt: "%5s|%-5s|%.2s|%05s", args: []any{"ab", "ab", "abc", "ab"}, out: "   ab|ab   |ab|   ab"},
		{fmt: "%p %p", args: []any{"a", nil}, out: `"a" nil`},
		{fmt: "100%%", out: "100%"},
		{fmt: "%2$s %1$s", args: []any{"a", "b"}, out: "b a"},
		{fmt: "%s", args: []any{true}, out: "true"},
		{fmt: "%s", args: []any{nil}, out: ""},
		{fmt: "%s", args: []any{Path("/tmp")}, out: "/tmp"},
		{fmt: "https://%<host>s/foo", named: ir.MapOf("host", "example.org"), out: "https://example.org/foo"},
		{fmt: "%<port>05d", named: ir.MapOf("port", int64(80)), out: "00080"},
		{fmt: "%{a}-%{b}", named: ir.MapOf("a", "x", "b", int64(1), "c", "unused"), out: "x-1"},
		{fmt: "%s %s", args: []any{"a"}, err: ErrFormatMismatch},
		{fmt: "%s", args: []any{"a", "b"}, err: ErrFormatMismatch},
		{fmt: "plain", args: []any{"a"}, err: ErrFormatMismatch},
		{fmt: "%d", args: []any{"x"}, err: ErrFormatMismatch},
		{fmt: "%d", args: []any{true}, err: ErrFormatMismatch},
		{fmt: "%f", args: []any{nil}, err: ErrFormatMismatch},
		{fmt: "%z", args: []any{"a"}, err: ErrFormatMismatch},
		{fmt: "%", err: ErrFormatMismatch},
		{fmt: "%<a", named: ir.MapOf("a", "x"), err: ErrFormatMismatch},
		{fmt: "%<b>s", named: ir.MapOf("a", "x"), err: ErrFormatMismatch},
		{fmt: "%s", named: ir.MapOf("a", "x"), err: ErrFormatMismatch},
		{fmt: "%<a>s", args: []any{"x"}, err: ErrFormatMismatch},
		{fmt: "%1$s %s", args: []any{"x"}, err: ErrFormatMismatch},
		{fmt: "%3$s", args: []any{"x"}, err: ErrFormatMismatch},
	}
	for _, tc := range tests {
		got, err := sprintf(tc.fmt, tc.args, tc.named)
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Errorf("%q %v: got %q, %v want %v", tc.fmt, tc.args, got, err, tc.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q %v: %v", tc.fmt, tc.args, err)
			continue
		}
		if got != tc.out {
			t.Errorf("%q %v: got %q want %q", tc.fmt, tc.args, got, tc.out)
		}
	}
}

func TestStrFormat(t *testing.T) {
	tests := []struct {
		in  string
		out string
		err error
	}{
		{in: "!str/format ['%.6d', 1200]", out: "001200"},
		{in: "!str/format {fmt: 'https://%<host>s/foo', host: !env [HOST, example.org]}", out: "https://example.org/foo"},
		{in: "!str/format plain", out: "plain"},
		{in: "!str/format {host: x}", err: ErrBadArguments},
		{in: "!str/format [1, 2]", err: ErrBadArguments},
		{in: "!str/format", err: ErrBadArguments},
	}
	for _, tc := range tests {
		got, err := ResolveDocument(parseDoc(t, tc.in), &Context{LookupEnv: envMap(nil)})
		if tc.err != nil {
			if !errors.Is(err, tc.err) {
				t.Errorf("%s: got %v want %v", tc.in, err, tc.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tc.in, err)
			continue
		}
		if got != tc.out {
			t.Errorf("%s: got %q want %q", tc.in, got, tc.out)
		}
	}
}
