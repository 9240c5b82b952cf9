package encode

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/signadot/tagload/format"
	"github.com/signadot/tagload/ir"

	"github.com/goccy/go-yaml/token"
)

// EncodeNode writes an unresolved tree to w as YAML, keeping its tags.
// JSON has no place for tags, so the JSON format is refused.
func EncodeNode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := newEncState(opts)
	if es.format != format.YAMLFormat {
		return fmt.Errorf("%w: unresolved documents encode only as yaml, not %s", format.ErrBadFormat, es.format)
	}
	head, body := es.block(node)
	b := &strings.Builder{}
	switch {
	case len(body) == 0:
		b.WriteString(head)
		b.WriteByte('\n')
	case head != "":
		b.WriteString("--- " + head + "\n")
		fallthrough
	default:
		for _, ln := range body {
			b.WriteString(ln)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// block renders node either inline (head only) or as a header (its tag,
// possibly empty) followed by unindented body lines.
func (es *EncState) block(node *ir.Node) (string, []string) {
	tag := ""
	if node.Tag != "" {
		tag = es.color(node.Type, TagColor, "!"+node.Tag)
	}
	switch node.Type {
	case ir.ObjectType, ir.ArrayType:
		if len(node.Values) == 0 {
			empty := "{}"
			if node.Type == ir.ArrayType {
				empty = "[]"
			}
			return joinSpace(tag, es.color(node.Type, SepColor, empty)), nil
		}
	default:
		return joinSpace(tag, es.scalar(node)), nil
	}
	pad := strings.Repeat(" ", es.indent)
	var body []string
	if node.Type == ir.ArrayType {
		dash := es.color(ir.ArrayType, SepColor, "-")
		for _, v := range node.Values {
			head, sub := es.block(v)
			if len(sub) == 0 {
				body = append(body, joinSpace(dash, head))
				continue
			}
			if head != "" {
				body = append(body, joinSpace(dash, head))
				body = append(body, indentLines(pad, sub)...)
				continue
			}
			body = append(body, dash+pad[1:]+sub[0])
			body = append(body, indentLines(pad, sub[1:])...)
		}
		return tag, body
	}
	colon := es.color(ir.ObjectType, SepColor, ":")
	for i, k := range node.Keys {
		key := es.color(ir.ObjectType, KeyColor, quoteIfNeeded(string(k))) + colon
		head, sub := es.block(node.Values[i])
		if len(sub) == 0 {
			body = append(body, joinSpace(key, head))
			continue
		}
		body = append(body, joinSpace(key, head))
		body = append(body, indentLines(pad, sub)...)
	}
	return tag, body
}

func (es *EncState) scalar(node *ir.Node) string {
	var s string
	switch node.Type {
	case ir.NullType:
		s = "null"
	case ir.BoolType:
		s = strconv.FormatBool(node.Bool)
	case ir.NumberType:
		s = node.Text
		if s == "" {
			s = fmt.Sprint(node.Value())
		}
	case ir.TimeType:
		s = node.Text
		if s == "" && node.Time != nil {
			s = node.Time.Format(time.RFC3339Nano)
		}
	case ir.StringType:
		s = quoteIfNeeded(node.String)
	}
	return es.color(node.Type, ValueColor, s)
}

func joinSpace(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

func indentLines(pad string, lines []string) []string {
	res := make([]string, len(lines))
	for i, ln := range lines {
		res[i] = pad + ln
	}
	return res
}

// quoteIfNeeded double quotes s when it would not read back as the same
// plain string.
func quoteIfNeeded(s string) string {
	if token.IsNeedQuoted(s) || strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return strconv.Quote(s)
	}
	return s
}
