package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// KPath is a path into a document: object keys and array indices, outermost
// first.
type KPath []string

// String renders p as "a.b[0].c". Keys that would not read back are quoted.
//
// Examples:
//   - [] → ""
//   - [a b] → "a.b"
//   - [list 0 name] → "list[0].name" (when list is an array)
func (p KPath) String() string {
	b := &strings.Builder{}
	for i, seg := range p {
		if _, err := strconv.Atoi(seg); err == nil && i > 0 {
			b.WriteString("[" + seg + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		if seg == "" || strings.ContainsAny(seg, ".[]'\" ") {
			b.WriteString(strconv.Quote(seg))
			continue
		}
		b.WriteString(seg)
	}
	return b.String()
}

func (p KPath) Append(seg string) KPath {
	res := make(KPath, len(p), len(p)+1)
	copy(res, p)
	return append(res, seg)
}

// ParseKPath parses the rendering produced by KPath.String.
func ParseKPath(s string) (KPath, error) {
	var res KPath
	i, n := 0, len(s)
	for i < n {
		switch c := s[i]; c {
		case '.':
			i++
			if i == n {
				return nil, fmt.Errorf("trailing '.' in path %q", s)
			}
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j == -1 {
				return nil, fmt.Errorf("unterminated '[' in path %q", s)
			}
			idx := s[i+1 : i+j]
			if _, err := strconv.Atoi(idx); err != nil {
				return nil, fmt.Errorf("bad index %q in path %q", idx, s)
			}
			res = append(res, idx)
			i += j + 1
		case '"':
			q, err := strconv.QuotedPrefix(s[i:])
			if err != nil {
				return nil, fmt.Errorf("bad quoted key in path %q: %w", s, err)
			}
			k, _ := strconv.Unquote(q)
			res = append(res, k)
			i += len(q)
		default:
			j := strings.IndexAny(s[i:], ".[")
			if j == -1 {
				j = n - i
			}
			res = append(res, s[i:i+j])
			i += j
		}
	}
	return res, nil
}

// KPath returns the path from the root of y's tree to y.
func (y *Node) KPath() KPath {
	if y.Parent == nil {
		return nil
	}
	prefix := y.Parent.KPath()
	switch y.Parent.Type {
	case ObjectType:
		return prefix.Append(string(y.ParentKey))
	case ArrayType:
		return prefix.Append(strconv.Itoa(y.ParentIndex))
	default:
		panic("parent but not in container")
	}
}

// Location describes where y sits, for diagnostics.
func (y *Node) Location() string {
	p := y.KPath().String()
	if p == "" {
		p = "<root>"
	}
	if y.Line == 0 {
		return p
	}
	return fmt.Sprintf("%s (line %d)", p, y.Line)
}

// GetKPath walks p from y. Array segments must be decimal indices. The
// returned error wraps ErrPathNotFound and names the longest prefix of p
// that failed.
func (y *Node) GetKPath(p KPath) (*Node, error) {
	res := y
	for i, seg := range p {
		var next *Node
		switch res.Type {
		case ObjectType:
			next = Get(res, Key(seg))
		case ArrayType:
			idx, err := strconv.Atoi(seg)
			if err == nil && idx >= 0 && idx < len(res.Values) {
				next = res.Values[idx]
			}
		}
		if next == nil {
			return nil, fmt.Errorf("%w: %s (at %s)", ErrPathNotFound, p, p[:i+1])
		}
		res = next
	}
	return res, nil
}
