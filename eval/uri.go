package eval

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

var uriK = &uriKind{name: "uri"}

// URIKind builds a URI. List arguments are concatenated; mapping arguments
// {base, path} resolve path against base.
func URIKind() Kind {
	return uriK
}

type uriKind struct {
	name
}

func (k *uriKind) Instance(opts Options) (Resolver, error) {
	if err := checkOptions(k, opts); err != nil {
		return nil, err
	}
	return uriResolver{}, nil
}

type uriResolver struct{}

func (uriResolver) Resolve(t *Tag, _ *Context) (any, error) {
	if !t.Args.IsMap() {
		parts, err := t.Args.Strings()
		if err != nil {
			return nil, err
		}
		return parseURI(strings.Join(parts, ""))
	}
	var base, ref string
	for k, v := range t.Args.Map.All() {
		s, err := Stringify(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadArguments, k, err)
		}
		switch k {
		case "base":
			base = s
		case "path":
			ref = s
		default:
			return nil, fmt.Errorf("%w: unexpected key %q, want base and path", ErrBadArguments, k)
		}
	}
	b, err := parseURI(base)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		return b, nil
	}
	r, err := parseURI(ref)
	if err != nil {
		return nil, err
	}
	return URI{b.ResolveReference(r.URL)}, nil
}

// unreserved, gen-delims and sub-delims characters of RFC 3986.
const uriChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~:/?#[]@!$&'()*+,;="

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func parseURI(s string) (URI, error) {
	if s == "" {
		return URI{}, fmt.Errorf("%w: empty", ErrInvalidURI)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' {
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return URI{}, fmt.Errorf("%w: %q has a bad escape at %d", ErrInvalidURI, s, i)
			}
			continue
		}
		if c >= utf8.RuneSelf || !strings.ContainsRune(uriChars, rune(c)) {
			return URI{}, fmt.Errorf("%w: %q has a bad character at %d", ErrInvalidURI, s, i)
		}
	}
	u, err := url.Parse(s)
	if err != nil {
		return URI{}, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	return URI{u}, nil
}
