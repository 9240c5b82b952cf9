package encode

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/tagload/format"
	"github.com/signadot/tagload/ir"

	"github.com/goccy/go-yaml"
)

// Encode writes a resolved value (as produced by tag resolution) to w.
func Encode(v any, w io.Writer, opts ...EncodeOption) error {
	if n, ok := v.(*ir.Node); ok {
		return EncodeNode(n, w, opts...)
	}
	es := newEncState(opts)
	var (
		d   []byte
		err error
	)
	switch es.format {
	case format.JSONFormat:
		d, err = json.MarshalIndent(v, "", strings.Repeat(" ", es.indent))
		if err == nil {
			d = append(d, '\n')
		}
	case format.YAMLFormat:
		d, err = yaml.MarshalWithOptions(v,
			yaml.Indent(es.indent),
			yaml.IndentSequence(true),
			yaml.UseLiteralStyleIfMultiline(true))
	default:
		return fmt.Errorf("%w: %d", format.ErrBadFormat, es.format)
	}
	if err != nil {
		return fmt.Errorf("error encoding %s: %w", es.format, err)
	}
	_, err = w.Write(d)
	return err
}

// MustString renders v as YAML and panics on failure.
func MustString(v any) string {
	b := &strings.Builder{}
	if err := Encode(v, b); err != nil {
		panic(err)
	}
	return strings.TrimSpace(b.String())
}
